package llamacpp

import (
	gateway "github.com/danilofalcao/coder-gateway/internal/api/gateway/v1"
	llamacpp "github.com/danilofalcao/coder-gateway/internal/api/llamacpp/v1"
	"github.com/pkg/errors"
)

// convertRequest maps a gateway request onto the backend payload. Defaults are
// applied for any field the caller left out.
func convertRequest(req *gateway.CompletionRequest, padPrompt bool) llamacpp.CompletionRequest {
	prompt := req.Prompt
	if padPrompt {
		prompt = " " + prompt + " "
	}

	return llamacpp.CompletionRequest{
		Prompt:      prompt,
		Temperature: req.GetTemperature(),
		NPredict:    req.GetMaxTokens(),
		Stop:        req.WithDefaults().Stop,
	}
}

// convertResponse maps a backend reply onto the gateway response. A reply
// without content is malformed.
func convertResponse(resp *llamacpp.CompletionResponse) (*gateway.CompletionResponse, error) {
	if resp.Content == nil {
		return nil, errors.New("backend response is missing content")
	}

	return &gateway.CompletionResponse{
		Text: *resp.Content,
		Usage: gateway.Usage{
			PromptTokens:     resp.PromptTokens,
			CompletionTokens: resp.CompletionTokens,
			TotalTokens:      resp.TotalTokens,
		},
	}, nil
}
