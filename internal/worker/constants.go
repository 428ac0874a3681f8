package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

// JobNameJackpotBroadcast labels the periodic jackpot snapshot job
const JobNameJackpotBroadcast = "jackpot_broadcast"

const (
	LogMsgWorkerJobFailed   = "Background job failed"
	LogMsgWorkerJobPanicked = "Background job panicked"
	LogMsgWorkerQueueFull   = "Worker queue full, job skipped"
	LogMsgWorkerPoolStopped = "Worker pool stopped"

	LogMsgJackpotBroadcastFailed = "Failed to broadcast jackpot snapshot"
	LogMsgJackpotBroadcast       = "Broadcast jackpot snapshots"
)
