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

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	TransactionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransactionsApplied,
			Help: HelpTextTransactionsApplied,
		},
		[]string{LabelReason},
	)

	TransactionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransactionConflicts,
			Help: HelpTextTransactionConflicts,
		},
	)

	TransfersCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransfersCompleted,
			Help: HelpTextTransfersCompleted,
		},
	)

	TransferRefunds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransferRefunds,
			Help: HelpTextTransferRefunds,
		},
	)

	ItemsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsGranted,
			Help: HelpTextItemsGranted,
		},
	)

	ItemsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsRemoved,
			Help: HelpTextItemsRemoved,
		},
	)

	GearOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGearOperations,
			Help: HelpTextGearOperations,
		},
		[]string{LabelOperation, LabelSetup},
	)

	ActivitiesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActivitiesStarted,
			Help: HelpTextActivitiesStarted,
		},
		[]string{LabelKind},
	)

	ActivitiesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActivitiesCompleted,
			Help: HelpTextActivitiesCompleted,
		},
		[]string{LabelKind},
	)

	ActivitiesCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActivitiesCancelled,
			Help: HelpTextActivitiesCancelled,
		},
		[]string{LabelKind},
	)

	BusyRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBusyRejections,
			Help: HelpTextBusyRejections,
		},
	)
)
