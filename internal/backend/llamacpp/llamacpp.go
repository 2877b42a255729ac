package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	gateway "github.com/danilofalcao/coder-gateway/internal/api/gateway/v1"
	llamacpp "github.com/danilofalcao/coder-gateway/internal/api/llamacpp/v1"
	"github.com/danilofalcao/coder-gateway/internal/backend"
	"github.com/danilofalcao/coder-gateway/internal/backend/util"
	constants "github.com/danilofalcao/coder-gateway/internal/constants/llamacpp"
	logutils "github.com/danilofalcao/coder-gateway/internal/utils/logger"
	"github.com/pkg/errors"
)

var _ backend.Backend = &llamacppBackend{}

const acceptEncoding = "gzip, br, deflate"

type llamacppBackend struct {
	endpoint      string
	padPrompt     bool
	timeout       time.Duration
	healthTimeout time.Duration
	client        *http.Client
}

type Options struct {
	Endpoint      string
	PadPrompt     bool
	Timeout       time.Duration
	HealthTimeout time.Duration
	// HTTPClient defaults to a client without its own timeout; calls are
	// bounded through their context instead.
	HTTPClient *http.Client
}

func NewLlamacppBackend(opts Options) backend.Backend {
	b := &llamacppBackend{
		endpoint:      strings.TrimRight(opts.Endpoint, "/"),
		padPrompt:     opts.PadPrompt,
		timeout:       opts.Timeout,
		healthTimeout: opts.HealthTimeout,
		client:        opts.HTTPClient,
	}
	if b.endpoint == "" {
		b.endpoint = constants.DefaultEndpoint
	}
	if b.timeout <= 0 {
		b.timeout = constants.DefaultTimeout
	}
	if b.healthTimeout <= 0 {
		b.healthTimeout = constants.DefaultHealthTimeout
	}
	if b.client == nil {
		b.client = &http.Client{}
	}
	return b
}

// Name returns the name of the backend
func (b *llamacppBackend) Name() string {
	return "llamacpp"
}

// Complete sends a single completion request to the backend. There are no
// retries; every failure is returned as a *backend.Error.
func (b *llamacppBackend) Complete(ctx context.Context, req *gateway.CompletionRequest) (*gateway.CompletionResponse, error) {
	lgr, ctx := logutils.FromContext(ctx).Clone(ctx, b.Name())

	body, err := json.Marshal(convertRequest(req, b.padPrompt))
	if err != nil {
		return nil, backend.NewInternalError(errors.Wrap(err, "error marshalling llamacpp request"))
	}
	lgr.Tracef(ctx, "llamacpp request body: %s", string(body))

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+constants.CompletionPath, bytes.NewReader(body))
	if err != nil {
		return nil, backend.NewInternalError(errors.Wrap(err, "error creating llamacpp request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// set explicitly so encoded replies reach util.ReadResponse undecoded
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		lgr.Warnf(ctx, "llamacpp unreachable: %s", err.Error())
		return nil, backend.NewUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		lgr.Warnf(ctx, "llamacpp returned status %d", resp.StatusCode)
		return nil, backend.NewStatusError(resp.StatusCode)
	}

	respBody, err := util.ReadResponse(resp)
	if err != nil {
		// the deadline can also expire while the body is still being read
		if ctx.Err() != nil {
			return nil, backend.NewUnavailableError(err)
		}
		return nil, backend.NewInternalError(errors.Wrap(err, "error reading llamacpp response"))
	}

	var llamaResp llamacpp.CompletionResponse
	if err := json.Unmarshal(respBody, &llamaResp); err != nil {
		return nil, backend.NewInternalError(errors.Wrap(err, "error unmarshaling llamacpp response"))
	}

	out, err := convertResponse(&llamaResp)
	if err != nil {
		return nil, backend.NewInternalError(err)
	}
	lgr.Debugf(ctx, "completion usage: %+v", out.Usage)
	return out, nil
}

// Health probes the backend's /health endpoint. Only a 200 counts as healthy.
func (b *llamacppBackend) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.healthTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+constants.HealthPath, nil)
	if err != nil {
		return backend.NewInternalError(errors.Wrap(err, "error creating health request"))
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return backend.NewUnavailableError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return backend.NewStatusError(resp.StatusCode)
	}
	return nil
}
