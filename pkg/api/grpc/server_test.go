package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakeChecker struct {
	down atomic.Bool
}

func (f *fakeChecker) Health(ctx context.Context) error {
	if f.down.Load() {
		return errors.New("store unreachable")
	}
	return nil
}

func TestHealthService(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	checker := &fakeChecker{}
	s := newServer(lis, &Config{Checker: checker, CheckInterval: time.Hour, Logger: zap.NewNop()})

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.Start() }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	checker.down.Store(true)
	s.check()

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-serveErr)
}
