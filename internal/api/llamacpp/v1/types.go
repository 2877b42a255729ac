package v1

// CompletionRequest represents a request to the llama.cpp /completion endpoint
type CompletionRequest struct {
	Prompt      string   `json:"prompt"`
	Temperature float64  `json:"temperature"`
	NPredict    int      `json:"n_predict"`
	Stop        []string `json:"stop"`
}

// CompletionResponse represents a reply from the llama.cpp /completion endpoint.
// Content is a pointer so that a reply without it can be told apart from an
// empty generation.
type CompletionResponse struct {
	Content          *string `json:"content"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
}
