package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Reward Metrics
var (
	DrawsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawsTotal,
			Help: HelpTextDrawsTotal,
		},
		[]string{LabelPool, LabelRarity},
	)

	PityTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePityTriggers,
			Help: HelpTextPityTriggers,
		},
		[]string{LabelPool},
	)

	FeaturedDraws = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFeaturedDraws,
			Help: HelpTextFeaturedDraws,
		},
		[]string{LabelPool},
	)

	DuplicateCompensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDuplicateCompensations,
			Help: HelpTextDuplicateCompensations,
		},
		[]string{LabelRarity},
	)

	CurrencySpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCurrencySpent,
			Help: HelpTextCurrencySpent,
		},
		[]string{LabelPool},
	)

	FreeSpins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFreeSpins,
			Help: HelpTextFreeSpins,
		},
		[]string{LabelWheel},
	)

	JackpotPayouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJackpotPayouts,
			Help: HelpTextJackpotPayouts,
		},
		[]string{LabelWheel},
	)

	JackpotPaidAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJackpotPaidAmount,
			Help: HelpTextJackpotPaidAmount,
		},
		[]string{LabelWheel},
	)

	JackpotAmount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameJackpotAmount,
			Help: HelpTextJackpotAmount,
		},
		[]string{LabelWheel},
	)

	IdempotentReplays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameIdempotentReplays,
			Help: HelpTextIdempotentReplays,
		},
		[]string{LabelOperation},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameOperationDuration,
			Help:    HelpTextOperationDuration,
			Buckets: OperationLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	BackgroundJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBackgroundJobs,
			Help: HelpTextBackgroundJobs,
		},
		[]string{LabelJob, LabelOutcome},
	)
)
