package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// runStdioServer runs the server with STDIO transport until in is closed or
// ctx is cancelled.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	stdioServer := mcpserver.NewStdioServer(mcpSrv)
	// Don't print to stdout in stdio mode as it interferes with MCP communication
	stdioServer.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))

	if err := stdioServer.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
