package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
)

func TestRunServer(t *testing.T) {
	errFlush := errors.New("flush failed")

	tests := []struct {
		name     string
		occupied bool
		stepErr  error
		wantErrs []string
	}{
		{
			name: "stops on signal",
		},
		{
			name:     "listen failure still runs cleanup",
			occupied: true,
			wantErrs: []string{"listening on"},
		},
		{
			name:     "listen failure joins cleanup errors",
			occupied: true,
			stepErr:  errFlush,
			wantErrs: []string{"listening on", "flushing traces: flush failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := "127.0.0.1:0"
			if tt.occupied {
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				require.NoError(t, err)
				t.Cleanup(func() { ln.Close() })
				addr = ln.Addr().String()
			}

			srv := &http.Server{Addr: addr, Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}

			quit := make(chan os.Signal, 1)
			if !tt.occupied {
				quit <- syscall.SIGTERM
			}

			var ran []string
			step := func(name string, err error) shutdownStep {
				return shutdownStep{name, func(context.Context) error {
					ran = append(ran, name)
					return err
				}}
			}

			done := make(chan error, 1)
			go func() {
				done <- runServer(srv, quit, time.Second, monitoring.NopLogger(),
					step("flushing traces", tt.stepErr),
					step("stopping metrics", nil),
				)
			}()

			var err error
			select {
			case err = <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("server did not stop")
			}

			assert.Equal(t, []string{"flushing traces", "stopping metrics"}, ran)
			if tt.wantErrs == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.Contains(t, err.Error(), want)
			}
			if tt.stepErr != nil {
				assert.ErrorIs(t, err, tt.stepErr)
			}
		})
	}
}
