package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/danilofalcao/coder-gateway/internal/constants"
	contextutils "github.com/danilofalcao/coder-gateway/internal/utils/context"
	logutils "github.com/danilofalcao/coder-gateway/internal/utils/logger"
)

// withContext carries the server's logger into the request context, injects a
// request ID and applies the request timeout. Cancellation of the inbound
// request still propagates since the context is derived from r.Context().
func withContext(srvCtx context.Context, next http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ctx = logutils.ContextWithLogger(ctx, logutils.FromContext(srvCtx))

		// Generate request ID
		requestID := r.Header.Get(constants.RequestIDHeader)
		if requestID == "" {
			requestID = contextutils.NewRequestID()
		}
		// Add request ID to context and response headers
		ctx = contextutils.WithRequestID(ctx, requestID)
		w.Header().Set(constants.RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
