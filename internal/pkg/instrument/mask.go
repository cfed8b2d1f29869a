package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// Masked replaces the value of every masked field.
const Masked = "***"

// MaskKeys normalizes field names into a lookup set.
func MaskKeys(fields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field != "" {
			keys[field] = struct{}{}
		}
	}
	return keys
}

// IsMasked reports whether key (case-insensitive) is in keys.
func IsMasked(key string, keys map[string]struct{}) bool {
	_, found := keys[strings.ToLower(key)]
	return found
}

// MaskValue walks decoded JSON (maps and slices) and masks matching keys.
func MaskValue(v any, keys map[string]struct{}) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if IsMasked(k, keys) {
				out[k] = Masked
				continue
			}
			out[k] = MaskValue(v2, keys)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			out[k] = v2
		}
		return MaskValue(out, keys)
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = MaskValue(v2, keys)
		}
		return out
	default:
		return v
	}
}

// maskJSON masks a JSON object or array payload; ok is false when payload is not JSON.
func maskJSON(payload []byte, keys map[string]struct{}) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", false
	}

	b, err := json.Marshal(MaskValue(decoded, keys))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// maskHandler rewrites attributes whose key is masked, including JSON
// strings/bytes and nested groups.
type maskHandler struct {
	slog.Handler
	keys map[string]struct{}
}

func (h *maskHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.keys) == 0 {
		return h.Handler.Handle(ctx, r)
	}

	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.mask(a))
		return true
	})

	return h.Handler.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &maskHandler{Handler: h.Handler.WithAttrs(masked), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{Handler: h.Handler.WithGroup(name), keys: h.keys}
}

func (h *maskHandler) mask(a slog.Attr) slog.Attr {
	if IsMasked(a.Key, h.keys) {
		return slog.String(a.Key, Masked)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = h.mask(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := maskJSON([]byte(a.Value.String()), h.keys); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case nil:
		case []byte:
			if s, ok := maskJSON(v, h.keys); ok {
				a.Value = slog.StringValue(s)
			}
		case map[string]any, map[string]string, []any:
			a.Value = slog.AnyValue(MaskValue(v, h.keys))
		}
	}

	return a
}
