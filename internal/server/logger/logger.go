package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/danilofalcao/coder-gateway/internal/constants"
	contextutils "github.com/danilofalcao/coder-gateway/internal/utils/context"
)

var (
	Fallback = New(context.Background(), "fallback", DEBUG, make(chan string, 1))
)

type Logger struct {
	name   string
	ctx    context.Context
	level  LogLevel
	exitCh chan string
	out    io.Writer
	mu     *sync.Mutex
}

func New(ctx context.Context, name string, level LogLevel, exitCh chan string) *Logger {
	return &Logger{
		name:   name,
		ctx:    ctx,
		level:  level,
		exitCh: exitCh,
		out:    os.Stdout,
		mu:     &sync.Mutex{},
	}
}

// WithOutput redirects the logger, mostly useful in tests
func (l *Logger) WithOutput(w io.Writer) *Logger {
	l.out = w
	return l
}

func (l *Logger) write(ctx context.Context, s string, level LogLevel) {
	ts := time.Now().Local().Format(time.DateTime)
	l.mu.Lock()
	defer l.mu.Unlock()
	if reqId := contextutils.GetRequestID(ctx); reqId != "" {
		fmt.Fprintf(l.out, "[%s][%s][%s][%s] %s\n", ts, level.String(), l.name, reqId, s)
		return
	}
	fmt.Fprintf(l.out, "[%s][%s][%s] %s\n", ts, level.String(), l.name, s)
}

// Clone returns a named child logger sharing level, output and exit channel,
// along with ctx carrying it.
func (l *Logger) Clone(ctx context.Context, name string) (*Logger, context.Context) {
	lgr := &Logger{
		name:   name,
		ctx:    ctx,
		level:  l.level,
		exitCh: l.exitCh,
		out:    l.out,
		mu:     l.mu,
	}
	return lgr, context.WithValue(ctx, constants.LoggerKey, lgr)
}

func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) Trace(ctx context.Context, s string) {
	if l.level > TRACE {
		return
	}
	l.write(ctx, s, TRACE)
}

func (l *Logger) Tracef(ctx context.Context, s string, args ...any) {
	l.Trace(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Debug(ctx context.Context, s string) {
	if l.level > DEBUG {
		return
	}
	l.write(ctx, s, DEBUG)
}

func (l *Logger) Debugf(ctx context.Context, s string, args ...any) {
	l.Debug(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Info(ctx context.Context, s string) {
	if l.level > INFO {
		return
	}
	l.write(ctx, s, INFO)
}

func (l *Logger) Infof(ctx context.Context, s string, args ...any) {
	l.Info(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Warn(ctx context.Context, s string) {
	if l.level > WARN {
		return
	}
	l.write(ctx, s, WARN)
}

func (l *Logger) Warnf(ctx context.Context, s string, args ...any) {
	l.Warn(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Error(ctx context.Context, s string) {
	if l.level > ERROR {
		return
	}
	l.write(ctx, s, ERROR)
}

func (l *Logger) Errorf(ctx context.Context, s string, args ...any) {
	l.Error(ctx, fmt.Sprintf(s, args...))
}

// Fatal logs s and hands it to the exit channel. It never blocks: if a fatal
// message is already pending, s is only logged.
func (l *Logger) Fatal(ctx context.Context, s string) {
	l.write(ctx, s, FATAL)
	select {
	case l.exitCh <- s:
	default:
	}
}

func (l *Logger) Fatalf(ctx context.Context, s string, args ...any) {
	l.Fatal(ctx, fmt.Sprintf(s, args...))
}
