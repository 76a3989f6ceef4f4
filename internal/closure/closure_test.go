package closure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lowcodeminds/tms-api/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchClosureDataUnreachableHost(t *testing.T) {
	// Port 1 on loopback refuses immediately; no external dependency.
	cfg := config.Database{Host: "127.0.0.1", Port: 1, User: "tms", Password: "bad", Name: "tms360"}
	gw, err := Open(cfg, discardLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer gw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = gw.FetchClosureData(ctx)
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	if got := normalize([]byte("tower-17")); got != "tower-17" {
		t.Fatalf("bytes should become string, got %#v", got)
	}
	if got := normalize(int64(42)); got != int64(42) {
		t.Fatalf("integers should pass through, got %#v", got)
	}
	if got := normalize(nil); got != nil {
		t.Fatalf("nil should pass through, got %#v", got)
	}
}

func TestIsoformat(t *testing.T) {
	date := time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC)
	if got := isoformat(date); got != "2024-07-16" {
		t.Fatalf("bare date mismatch: %s", got)
	}
	ts := time.Date(2024, 7, 16, 13, 45, 9, 0, time.UTC)
	if got := isoformat(ts); got != "2024-07-16T13:45:09" {
		t.Fatalf("timestamp mismatch: %s", got)
	}
}
