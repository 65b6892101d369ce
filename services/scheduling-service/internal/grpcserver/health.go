package grpcserver

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/brotasbeauty/scheduler/libs/grpcx"
	"github.com/brotasbeauty/scheduler/libs/runtime"
)

// ServiceName is the health service key callers can probe besides "".
const ServiceName = "scheduling.v1.Scheduling"

// Health mirrors the /readyz checks onto the standard gRPC health service.
type Health struct {
	srv    *health.Server
	checks []runtime.ReadyCheck
	logger *slog.Logger
	last   healthpb.HealthCheckResponse_ServingStatus
}

func NewHealth(logger *slog.Logger, checks ...runtime.ReadyCheck) *Health {
	return &Health{srv: health.NewServer(), checks: checks, logger: logger}
}

// Refresh runs the checks once and publishes the result.
func (h *Health) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := runtime.CheckAll(ctx, h.checks...); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		if h.last != status {
			h.logger.Warn("grpc health degraded", "err", err)
		}
	}
	h.last = status
	h.srv.SetServingStatus("", status)
	h.srv.SetServingStatus(ServiceName, status)
	return status
}

// Watch refreshes every interval until ctx ends, then marks the service as shutting down.
func (h *Health) Watch(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

// NewServer builds the gRPC server with the health service registered.
func NewServer(logger *slog.Logger, h *Health) *grpc.Server {
	srv := grpcx.NewServer(logger)
	healthpb.RegisterHealthServer(srv, h.srv)
	return srv
}

// Probe asks the health service at addr whether it is serving.
func Probe(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := grpcx.Dial(addr, nil)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
