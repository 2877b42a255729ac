package constants

type ContextKey string

const (
	LoggerKey    ContextKey = "logger"
	RequestIDKey ContextKey = "request_id"
)

// RequestIDHeader is read from inbound requests and echoed on every response
const RequestIDHeader = "X-Request-ID"
