package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func samplePass() Pass {
	return Pass{
		ID:        "p-1",
		Reason:    "ready",
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Fixes: []FixResult{
			{Name: "autocomplete", Present: 3, Touched: 2},
			{Name: "skip-link", Present: 1},
		},
		Ops: 5,
	}
}

func TestStdoutWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)

	if err := s.Send(context.Background(), samplePass()); err != nil {
		t.Fatal(err)
	}
	if err := s.Send(context.Background(), samplePass()); err != nil {
		t.Fatal(err)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("lines: %d", len(lines))
	}
	var p Pass
	if err := json.Unmarshal(lines[0], &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "p-1" || p.Reason != "ready" || len(p.Fixes) != 2 || p.Ops != 5 {
		t.Errorf("decoded pass: %+v", p)
	}
}

func TestRouterFansOutPastFailures(t *testing.T) {
	boom := errors.New("sink down")
	var delivered []string

	bad := NewCallback(func(context.Context, Pass) error { return boom })
	good := NewCallback(func(_ context.Context, p Pass) error {
		delivered = append(delivered, p.ID)
		return nil
	})

	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), bad, good)
	err := r.Send(context.Background(), samplePass())
	if !errors.Is(err, boom) {
		t.Errorf("want first error back, got %v", err)
	}
	if len(delivered) != 1 || delivered[0] != "p-1" {
		t.Errorf("later sink not reached: %v", delivered)
	}
	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
