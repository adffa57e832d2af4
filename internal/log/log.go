package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

// LevelAudit sits between info and warn so audit lines survive an "info" threshold
// and can still be filtered on their own.
const LevelAudit = slog.LevelInfo + 2

var base atomic.Pointer[slog.Logger]

func init() {
	base.Store(New("info", os.Stdout))
}

// New builds a JSON logger. Unknown levels fall back to info.
func New(level string, w io.Writer) *slog.Logger {
	var lv slog.LevelVar
	switch strings.ToLower(level) {
	case "debug":
		lv.Set(slog.LevelDebug)
	case "warn", "warning":
		lv.Set(slog.LevelWarn)
	case "error":
		lv.Set(slog.LevelError)
	default:
		lv.Set(slog.LevelInfo)
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: &lv,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.LevelKey:
				a.Value = slog.StringValue(levelName(a.Value.Any().(slog.Level)))
			case slog.MessageKey:
				a.Key = "action"
			}
			return a
		},
	})
	return slog.New(h)
}

func levelName(l slog.Level) string {
	switch {
	case l == LevelAudit:
		return "audit"
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}

// Setup replaces the process logger and returns it.
func Setup(level string, w io.Writer) *slog.Logger {
	l := New(level, w)
	base.Store(l)
	slog.SetDefault(l)
	return l
}

func L() *slog.Logger { return base.Load() }

type ctxKey struct{}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or the process logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return L()
}

// Middleware stores a logger tagged with the request id in the request's user context,
// so services called with c.UserContext() log with the same correlation fields.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := L().With("req_id", requestID(c), "method", c.Method(), "path", c.Path())
		c.SetUserContext(IntoContext(c.UserContext(), l))
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok {
		return rid
	}
	return ""
}

// write runs before the handler has chosen a status, so lines carry no status field.
// The access log records the final one.
func write(level slog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := L()
	attrs := make([]slog.Attr, 0, 8)
	if c != nil {
		attrs = append(attrs,
			slog.String("ip", c.IP()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		)
		if rid := requestID(c); rid != "" {
			attrs = append(attrs, slog.String("req_id", rid))
		}
		if uid, ok := c.Locals("user_id").(int64); ok && uid > 0 {
			attrs = append(attrs, slog.Int64("user_id", uid))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	if len(fields) > 0 {
		attrs = append(attrs, slog.Any("fields", fields))
	}
	l.LogAttrs(context.Background(), level, action, attrs...)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write(slog.LevelInfo, c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelAudit, c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelWarn, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(slog.LevelError, c, action, err, fields)
}
