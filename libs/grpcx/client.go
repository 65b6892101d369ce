package grpcx

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/brotasbeauty/scheduler/libs/httpx"
)

// Dial creates a lazily connecting client with tracing and request id propagation.
// Nil creds means plaintext.
func Dial(addr string, creds credentials.TransportCredentials, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(unaryClientRequestID),
	}
	return grpc.NewClient(addr, append(opts, extra...)...)
}

// unaryClientRequestID forwards the HTTP request id, or an id received over gRPC.
func unaryClientRequestID(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	id := httpx.RequestIDFromContext(ctx)
	if id == "" {
		id = RequestIDFromContext(ctx)
	}
	if id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDMetadataKey, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}
