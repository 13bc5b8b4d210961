package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		wantCommand string
		wantPort    int
		wantErr     bool
	}{
		{name: "no arguments", args: nil, wantCommand: "serve", wantPort: 8000},
		{name: "command only", args: []string{"run"}, wantCommand: "run", wantPort: 8000},
		{name: "command and port", args: []string{"serve", "9123"}, wantCommand: "serve", wantPort: 9123},
		{name: "highest port", args: []string{"serve", "65535"}, wantCommand: "serve", wantPort: 65535},
		{name: "non-numeric port", args: []string{"serve", "http"}, wantErr: true},
		{name: "zero port", args: []string{"serve", "0"}, wantErr: true},
		{name: "port out of range", args: []string{"serve", "70000"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, err := ParseArgs(tt.args)
			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidPort)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantCommand, opts.Command)
			require.Equal(t, tt.wantPort, opts.Port)
			require.Equal(t, DefaultHost, opts.Host)
		})
	}
}

func TestListenAddress(t *testing.T) {
	t.Parallel()

	require.Equal(t, "127.0.0.1:8000", listenAddress(&Options{Port: 8000}))
	require.Equal(t, "[::1]:9000", listenAddress(&Options{Host: "::1", Port: 9000}))
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, lis, &Options{Command: DefaultCommand, ShutdownTimeout: time.Second})
	}()

	url := "http://" + lis.Addr().String() + "/health"

	require.Eventually(t, func() bool {
		resp, getErr := http.Get(url) //nolint:noctx // Test helper.
		if getErr != nil {
			return false
		}

		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)

		return readErr == nil &&
			resp.StatusCode == http.StatusOK &&
			string(body) == `{"status":"healthy","message":"Server is running"}`
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestRun_PortInUse(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer lis.Close()

	port := lis.Addr().(*net.TCPAddr).Port

	err = Run(context.Background(), &Options{Host: DefaultHost, Port: port})
	require.Error(t, err)
	require.Contains(t, err.Error(), "listen on")
}
