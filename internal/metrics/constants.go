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
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameTransactionsApplied  = "transactions_applied_total"
	MetricNameTransactionConflicts = "transaction_conflicts_total"
	MetricNameTransfersCompleted   = "transfers_completed_total"
	MetricNameTransferRefunds      = "transfer_refunds_total"
	MetricNameItemsGranted         = "items_granted_total"
	MetricNameItemsRemoved         = "items_removed_total"
	MetricNameGearOperations       = "gear_operations_total"
	MetricNameActivitiesStarted    = "activities_started_total"
	MetricNameActivitiesCompleted  = "activities_completed_total"
	MetricNameActivitiesCancelled  = "activities_cancelled_total"
	MetricNameBusyRejections       = "busy_rejections_total"
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
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextTransactionsApplied  = "Total number of item transactions applied"
	HelpTextTransactionConflicts = "Total number of transactions lost to revision conflicts"
	HelpTextTransfersCompleted   = "Total number of cross-user transfers completed"
	HelpTextTransferRefunds      = "Total number of transfer refunds issued to senders"
	HelpTextItemsGranted         = "Total quantity of items added to banks"
	HelpTextItemsRemoved         = "Total quantity of items removed from banks"
	HelpTextGearOperations       = "Total number of gear operations"
	HelpTextActivitiesStarted    = "Total number of activities started"
	HelpTextActivitiesCompleted  = "Total number of activities completed"
	HelpTextActivitiesCancelled  = "Total number of activities cancelled"
	HelpTextBusyRejections       = "Total number of operations rejected because the minion was busy"
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
	LabelReason    = "reason"
	LabelOperation = "operation"
	LabelSetup     = "setup"
	LabelKind      = "kind"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
	LogMsgDecodeFailed    = "Failed to decode event payload for metrics"
)
