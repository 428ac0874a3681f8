package audit

// ProgressEvery is how many players pass between progress logs
const ProgressEvery = 1000

const LogMsgProgress = "Simulation progress"
