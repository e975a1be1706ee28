package webhook

import (
	"io"
	"log/slog"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	// verify no goroutine leaks across tests in this package
	goleak.VerifyTestMain(m)
}
