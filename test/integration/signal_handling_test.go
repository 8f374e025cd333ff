package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestServerGracefulShutdown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	binary := filepath.Join(t.TempDir(), "mcp-assisted-service-test")
	buildCmd := exec.Command("go", "build", "-o", binary, ".")
	buildCmd.Dir = "../../" // Go back to project root
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build server: %v\n%s", err, out)
	}

	for _, transport := range []string{"sse", "streamable-http", "stdio"} {
		for _, sig := range []syscall.Signal{syscall.SIGTERM, syscall.SIGINT} {
			t.Run(transport+" "+sig.String(), func(t *testing.T) {
				testSignalHandling(t, binary, transport, sig)
			})
		}
	}
}

func testSignalHandling(t *testing.T, binary, transport string, signal syscall.Signal) {
	cmd := exec.Command(binary, "serve",
		"--transport", transport,
		"--http-addr", "127.0.0.1:0",
		"--enable-metrics=false",
	)
	// No credentials and no instrumentation: the server must still start.
	cmd.Env = append(os.Environ(), "OFFLINE_TOKEN=", "INSTRUMENTATION_ENABLED=false")

	// Keep stdin open for the stdio transport so only the signal stops it.
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("Failed to open stdin: %v", err)
	}
	defer func() { _ = stdin.Close() }()

	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	// Give the server a moment to start up
	time.Sleep(300 * time.Millisecond)

	if err := cmd.Process.Signal(signal); err != nil {
		t.Fatalf("Failed to send %s signal: %v", signal, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		var exitError *exec.ExitError
		if err != nil && !errors.As(err, &exitError) {
			t.Fatalf("Process exited with unexpected error: %v", err)
		}
		if exitError != nil {
			t.Errorf("Process exited with %v, want a clean exit after %s", exitError, signal)
		}
	case <-time.After(10 * time.Second):
		if err := cmd.Process.Kill(); err != nil {
			t.Logf("Failed to force kill process: %v", err)
		}
		t.Fatalf("Server did not exit within 10 seconds after %s signal", signal)
	}
}
