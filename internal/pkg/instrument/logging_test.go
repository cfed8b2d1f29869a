package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	buf.Reset()
	return out
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelInfo, "otpgate", nil, []string{"password", " Authorization "})

	t.Run("RenamesKeysAndAddsService", func(t *testing.T) {
		logger.Info("hello")
		line := decodeLine(t, &buf)

		if _, ok := line["ts"]; !ok {
			t.Fatalf("expected ts key: %v", line)
		}
		if line["severity"] != "INFO" {
			t.Fatalf("expected severity INFO: %v", line)
		}
		if line["service"] != "otpgate" {
			t.Fatalf("expected service attr: %v", line)
		}
	})

	t.Run("CorrelationID", func(t *testing.T) {
		ctx := SetCorrelationID(context.Background(), "cid-1")
		logger.InfoContext(ctx, "with cid")
		line := decodeLine(t, &buf)

		if line["_cID"] != "cid-1" {
			t.Fatalf("expected _cID attr: %v", line)
		}
	})

	t.Run("MasksFlatAttr", func(t *testing.T) {
		logger.Info("login", "email", "a@b.com", "password", "hunter2")
		line := decodeLine(t, &buf)

		if line["password"] != Masked {
			t.Fatalf("expected password masked: %v", line)
		}
		if line["email"] != "a@b.com" {
			t.Fatalf("expected email untouched: %v", line)
		}
	})

	t.Run("MasksNestedMapsAndJSONStrings", func(t *testing.T) {
		logger.Info("req",
			"body", map[string]any{"email": "a@b.com", "password": "x"},
			"raw", `{"authorization":"Bearer abc","otp":123456}`,
		)
		line := decodeLine(t, &buf)

		body := line["body"].(map[string]any)
		if body["password"] != Masked || body["email"] != "a@b.com" {
			t.Fatalf("unexpected body: %v", body)
		}

		var raw map[string]any
		if err := json.Unmarshal([]byte(line["raw"].(string)), &raw); err != nil {
			t.Fatalf("raw not json: %v", err)
		}
		if raw["authorization"] != Masked {
			t.Fatalf("expected authorization masked: %v", raw)
		}
		if raw["otp"] != float64(123456) {
			t.Fatalf("expected otp untouched: %v", raw)
		}
	})

	t.Run("MasksWithAttrs", func(t *testing.T) {
		logger.With("password", "secret").Info("child")
		line := decodeLine(t, &buf)

		if line["password"] != Masked {
			t.Fatalf("expected password masked: %v", line)
		}
	})
}

func TestCorrelationID(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}

	ctx := SetCorrelationID(context.Background(), "abc")
	if got := GetCorrelationID(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}

func TestNew_LoggingConfig(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Run("LevelAndOutput", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		_, err := New(context.Background(), &Config{ServiceName: "otpgate", LogLevel: "warn", Output: &buf})
		if err != nil {
			t.Fatalf("new: %v", err)
		}

		// Act
		slog.Info("dropped")
		slog.Warn("kept")

		// Assert
		line := decodeLine(t, &buf)
		if line["msg"] != "kept" || line["severity"] != "WARN" {
			t.Fatalf("unexpected line: %v", line)
		}
	})

	t.Run("UnknownLevelMeansInfo", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := New(context.Background(), &Config{LogLevel: "loud", Output: &buf}); err != nil {
			t.Fatalf("new: %v", err)
		}

		slog.Debug("dropped")
		slog.Info("kept")

		if line := decodeLine(t, &buf); line["msg"] != "kept" {
			t.Fatalf("unexpected line: %v", line)
		}
	})
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if ins.Tracer("t") == nil || ins.Meter("m") == nil {
		t.Fatalf("expected noop providers")
	}
	if err := ins.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
