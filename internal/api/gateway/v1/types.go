package v1

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 512

	StatusHealthy = "healthy"
)

// CompletionRequest represents a completion request as accepted on /v1/completions
type CompletionRequest struct {
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// WithDefaults returns a copy of the request with absent fields set to their
// defaults. Explicit values, zero included, are kept as given.
func (r CompletionRequest) WithDefaults() CompletionRequest {
	if r.Temperature == nil {
		t := DefaultTemperature
		r.Temperature = &t
	}
	if r.MaxTokens == nil {
		n := DefaultMaxTokens
		r.MaxTokens = &n
	}
	if r.Stop == nil {
		r.Stop = []string{}
	}
	return r
}

// GetTemperature returns the temperature, or the default if it was not set
func (r CompletionRequest) GetTemperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// GetMaxTokens returns max_tokens, or the default if it was not set
func (r CompletionRequest) GetMaxTokens() int {
	if r.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *r.MaxTokens
}

// CompletionResponse is the body returned on a successful completion
type CompletionResponse struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Usage reports token accounting for a completion
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// HealthStatus is the body returned by /health when the backend is ready
type HealthStatus struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}

// ErrorResponse is the body returned on every failure
type ErrorResponse struct {
	Detail string `json:"detail"`
}
