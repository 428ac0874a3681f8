package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished = "events_published_total"
)

// Reward metric names
const (
	MetricNameDrawsTotal             = "reward_draws_total"
	MetricNamePityTriggers           = "reward_pity_triggers_total"
	MetricNameFeaturedDraws          = "reward_featured_draws_total"
	MetricNameDuplicateCompensations = "reward_duplicate_compensations_total"
	MetricNameCurrencySpent          = "reward_currency_spent_total"
	MetricNameFreeSpins              = "wheel_free_spins_total"
	MetricNameJackpotPayouts         = "wheel_jackpot_payouts_total"
	MetricNameJackpotPaidAmount      = "wheel_jackpot_paid_amount_total"
	MetricNameJackpotAmount          = "wheel_jackpot_amount"
	MetricNameIdempotentReplays      = "reward_idempotent_replays_total"
	MetricNameOperationDuration      = "reward_operation_duration_seconds"
	MetricNameBackgroundJobs         = "reward_background_jobs_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished = "Total number of events published"
)

// Reward metric help text
const (
	HelpTextDrawsTotal             = "Total number of draws by pool and rarity"
	HelpTextPityTriggers           = "Total number of draws shaped by hard pity"
	HelpTextFeaturedDraws          = "Total number of banner featured draws"
	HelpTextDuplicateCompensations = "Total number of duplicate items converted to soft currency"
	HelpTextCurrencySpent          = "Total currency charged for pulls and spins"
	HelpTextFreeSpins              = "Total number of daily free spins used"
	HelpTextJackpotPayouts         = "Total number of jackpot wins"
	HelpTextJackpotPaidAmount      = "Total coins paid out of jackpot escrows"
	HelpTextJackpotAmount          = "Current jackpot escrow amount"
	HelpTextIdempotentReplays      = "Total number of requests answered from a stored attempt"
	HelpTextOperationDuration      = "Reward operation latency in seconds"
	HelpTextBackgroundJobs         = "Background job runs by job and outcome"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelPool      = "pool"
	LabelRarity    = "rarity"
	LabelWheel     = "wheel"
	LabelOperation = "operation"
	LabelJob       = "job"
	LabelOutcome   = "outcome"
)

// Background job outcomes
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomePanic    = "panic"
	OutcomeRejected = "rejected"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets range from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// OperationLatencyBuckets cover in-process draws through slow database commits
var OperationLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)
