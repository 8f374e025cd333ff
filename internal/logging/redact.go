package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Masks used in place of sensitive values.
const (
	MaskPullSecret      = "*** PULL_SECRET ***"
	MaskSSHKey          = "*** SSH_KEY ***"
	MaskVSphereUser     = "*** VSPHERE_USER ***"
	MaskVSpherePassword = "*** VSPHERE_PASSWORD ***"
)

// sensitiveFields maps a field name to the mask that replaces its value.
var sensitiveFields = map[string]string{
	"pull_secret":      MaskPullSecret,
	"ssh_public_key":   MaskSSHKey,
	"vsphere_username": MaskVSphereUser,
	"vsphere_password": MaskVSpherePassword,
}

// SensitiveKeys is the set of attribute keys whose values are always masked.
var SensitiveKeys = sets.KeySet(sensitiveFields)

type redactPattern struct {
	re   *regexp.Regexp
	repl string
}

var redactPatterns = buildRedactPatterns()

func buildRedactPatterns() []redactPattern {
	patterns := make([]redactPattern, 0, len(sensitiveFields)*2)
	for _, field := range sets.List(SensitiveKeys) {
		mask := sensitiveFields[field]
		// JSON documents: "pull_secret": "..."
		patterns = append(patterns, redactPattern{
			re:   regexp.MustCompile(`("_?` + field + `"\s*:\s*)"(?:[^"\\]|\\.)*"`),
			repl: `${1}"` + mask + `"`,
		})
		// key=value renderings, quoted or bare.
		patterns = append(patterns, redactPattern{
			re:   regexp.MustCompile(`(\b_?` + field + `\s*=\s*)(?:'[^']*'|"[^"]*"|[^\s,}]+)`),
			repl: `${1}` + mask,
		})
	}
	return patterns
}

// Redact masks sensitive field values embedded in s.
func Redact(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	hit := false
	for field := range sensitiveFields {
		if strings.Contains(lower, field) {
			hit = true
			break
		}
	}
	if !hit {
		return s
	}
	for _, p := range redactPatterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// RedactAttr masks the value of a sensitive attribute, or scrubs sensitive
// fields out of a string value. Group attributes are handled recursively.
// It has the signature of slog.HandlerOptions.ReplaceAttr.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if mask, ok := sensitiveFields[strings.TrimPrefix(strings.ToLower(a.Key), "_")]; ok {
		return slog.String(a.Key, mask)
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		if r := Redact(v.String()); r != v.String() {
			return slog.String(a.Key, r)
		}
	case slog.KindGroup:
		attrs := v.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = RedactAttr(nil, ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// RedactingHandler wraps another handler and masks sensitive values in the
// record message and every attribute before they reach it.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler returns a handler that redacts records for next.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle redacts the record and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, Redact(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(RedactAttr(nil, a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs before attaching them to the wrapped handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = RedactAttr(nil, a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup opens a group on the wrapped handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}
