package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldError     = "error"
	FieldInvoiceID = "invoice_id"
	FieldSupplier  = "supplier"
	FieldFilename  = "filename"
	FieldAmountTTC = "amount_ttc"
)

// Components defines standard component names
const (
	ComponentAPI       = "api"
	ComponentWorker    = "worker"
	ComponentStorage   = "storage"
	ComponentQueue     = "queue"
	ComponentExtractor = "extractor"
)
