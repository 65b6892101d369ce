package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShutdownRunsInOrderAndJoinsErrors(t *testing.T) {
	var order []string
	err := Shutdown(nil, time.Second,
		Stopper{Name: "http", Stop: func(context.Context) error { order = append(order, "http"); return nil }},
		Stopper{Name: "skipped"},
		Stopper{Name: "otel", Stop: func(ctx context.Context) error {
			order = append(order, "otel")
			if _, ok := ctx.Deadline(); !ok {
				t.Fatal("expected a deadline on the shutdown context")
			}
			return errors.New("exporter gone")
		}},
	)
	if strings.Join(order, ",") != "http,otel" {
		t.Fatalf("unexpected order %v", order)
	}
	if err == nil || !strings.Contains(err.Error(), "otel: exporter gone") {
		t.Fatalf("unexpected error %v", err)
	}
}
