package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerContext(t *testing.T) {
	logger := newLogger(io.Discard, log.DebugLevel)
	ctx := withLogger(context.Background(), logger)

	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLoggerContext_Fallback(t *testing.T) {
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext returned nil without an attached logger")
	}
}
