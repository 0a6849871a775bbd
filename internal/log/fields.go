package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldGranularity = "granularity"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldTxID        = "transaction_id"
	FieldTxType      = "transaction_type"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentStats   = "stats"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)
