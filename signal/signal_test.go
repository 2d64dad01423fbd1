package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRequestShutdown closes the shutdown channel and cancels derived
// contexts.
func TestRequestShutdown(t *testing.T) {
	interceptor := Intercept()
	require.True(t, interceptor.Alive())

	ctx, cancel := interceptor.Context(context.Background())
	defer cancel()

	interceptor.RequestShutdown()

	select {
	case <-interceptor.ShutdownChannel():
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown channel not closed")
	}
	require.False(t, interceptor.Alive())

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled")
	}

	// Further requests return immediately.
	interceptor.RequestShutdown()
}
