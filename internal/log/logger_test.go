package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newCaptureLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(Config{Level: slog.LevelDebug, Component: ComponentApp, Handler: handler}), buf
}

func TestWithComponentTagsRecords(t *testing.T) {
	for _, component := range []string{ComponentHTTP, ComponentLedger, ComponentStorage, ComponentAMQP} {
		logger, buf := newCaptureLogger(t)

		logger.WithComponent(component).Info("something happened")

		if !strings.Contains(buf.String(), FieldComponent+"="+component) {
			t.Fatalf("record missing %s=%s: %q", FieldComponent, component, buf.String())
		}
	}
}

func TestWithAddsAttributes(t *testing.T) {
	logger, buf := newCaptureLogger(t)

	logger.With(FieldRequestID, "req_1").Info("started")

	if !strings.Contains(buf.String(), FieldRequestID+"=req_1") {
		t.Fatalf("record missing request id: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger, _ := newCaptureLogger(t)
	tagged := logger.WithComponent(ComponentHTTP)

	ctx := IntoContext(context.Background(), tagged)
	if got := FromContext(ctx); got != tagged {
		t.Fatalf("FromContext returned %v, want the stored logger", got)
	}

	// An untagged context falls back to the process default.
	if got := FromContext(context.Background()); got == nil || got.Logger == nil {
		t.Fatal("FromContext fallback returned nil logger")
	}
}
