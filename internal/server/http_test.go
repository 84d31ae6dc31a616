package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer(t *testing.T) {
	handler := http.NewServeMux()
	s := NewHTTPServer(handler, "127.0.0.1:8080")
	require.NotNil(t, s)
	assert.Equal(t, "127.0.0.1:8080", s.Address())
}

func TestHTTPServer_StartAndStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := NewHTTPServer(mux, "127.0.0.1:0")

	listener := NewPlainListener()
	ln, err := listener.Listen("tcp", s.Address())
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s = NewHTTPServer(mux, addr)

	done := make(chan error, 1)
	go func() {
		done <- s.Start(NewPlainListener())
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		var getErr error
		resp, getErr = http.Get(fmt.Sprintf("http://%s/health", addr))
		return getErr == nil
	}, 2*time.Second, 50*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), "invalid-address")

	err := s.Start(NewPlainListener())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
