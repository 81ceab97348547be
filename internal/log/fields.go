package log

// Common field names for structured logging.
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
	FieldEntityID    = "id"
	FieldDocumentKey = "key"
	FieldRevision    = "revision"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
)

// Components defines standard component names for the binaries.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)

// Operations defines standard operation names.
const (
	OpAdd         = "add"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpReset       = "reset"
	OpExport      = "export"
	OpMaterialize = "materialize"
)
