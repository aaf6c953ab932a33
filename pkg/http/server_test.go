package http

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitOrFail(t *testing.T, s *Server) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- s.Wait()
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
		return nil
	}
}

func TestWaitReturnsListenError(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	viper.Set("api_port", l.Addr().(*net.TCPAddr).Port)
	viper.Set("api_timeout", time.Second)
	defer viper.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api, err := NewServer(zap.NewNop()).Use(ctx, false, nil)
	require.NoError(t, err)

	err = waitOrFail(t, api)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
}

func TestWaitReturnsAfterCancel(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	viper.Set("api_port", port)
	viper.Set("api_timeout", time.Second)
	defer viper.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	api, err := NewServer(zap.NewNop()).Use(ctx, false, nil)
	require.NoError(t, err)

	cancel()
	assert.NoError(t, waitOrFail(t, api))
	assert.NoError(t, NewServer(zap.NewNop()).Wait())
}
