package llamacpp

import "time"

const (
	DefaultEndpoint      = "http://localhost:8080"
	CompletionPath       = "/completion"
	HealthPath           = "/health"
	DefaultTimeout       = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second
)
