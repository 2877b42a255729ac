package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/danilofalcao/coder-gateway/internal/constants"
	contextutils "github.com/danilofalcao/coder-gateway/internal/utils/context"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		" info ":  INFO,
		"warning": WARN,
		"error":   ERROR,
		"panic":   FATAL,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(context.Background(), "test", WARN, make(chan string, 1)).WithOutput(&buf)
	ctx := context.Background()

	lgr.Tracef(ctx, "trace %d", 1)
	lgr.Debug(ctx, "debug")
	lgr.Info(ctx, "info")
	assert.Empty(t, buf.String())

	lgr.Warnf(ctx, "warn %s", "x")
	lgr.Error(ctx, "error")
	assert.Contains(t, buf.String(), "[WARN][test] warn x")
	assert.Contains(t, buf.String(), "[ERROR][test] error")
}

func TestRequestIDInOutput(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(context.Background(), "test", INFO, make(chan string, 1)).WithOutput(&buf)
	ctx := contextutils.WithRequestID(context.Background(), "deadbeef")

	lgr.Info(ctx, "hello")
	assert.Contains(t, buf.String(), "[INFO][test][deadbeef] hello")
}

func TestClone(t *testing.T) {
	var buf bytes.Buffer
	parent := New(context.Background(), "server", DEBUG, make(chan string, 1)).WithOutput(&buf)

	child, ctx := parent.Clone(contextutils.WithRequestID(context.Background(), "r1"), "llamacpp")
	assert.Equal(t, child, ctx.Value(constants.LoggerKey))
	assert.Equal(t, DEBUG, child.Level())

	child.Debug(ctx, "cloned")
	assert.Contains(t, buf.String(), "[DEBUG][llamacpp][r1] cloned")
}

func TestFatalSignalsExit(t *testing.T) {
	var buf bytes.Buffer
	exitCh := make(chan string, 1)
	lgr := New(context.Background(), "test", ERROR, exitCh).WithOutput(&buf)

	lgr.Fatalf(context.Background(), "bind: %s", "address in use")
	// a second fatal must not block on the full channel
	lgr.Fatal(context.Background(), "again")

	assert.Equal(t, "bind: address in use", <-exitCh)
	assert.Contains(t, buf.String(), "[FATAL][test] again")
}
