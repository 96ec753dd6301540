// Package mcpserver exposes the registered tools over the Model Context
// Protocol, on stdio or streamable HTTP. Tool failures of every kind
// (invalid arguments, authentication, remote faults) are reported as
// error-flagged tool results rather than protocol errors.
package mcpserver

import (
	"context"
	"encoding/json"
	"os"

	"github.com/effective-security/odoomcp/tools"
	"github.com/effective-security/xlog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName identifies this server during the MCP handshake.
	ServerName = "odoo-mcp"
	// Version is overridden at build time via ldflags.
	Version = "0.2.0"
)

// New builds the MCP server with every tool of the registry attached.
func New(reg *Registry) *server.MCPServer {
	srv := server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range reg.Tools() {
		raw, err := json.Marshal(t.Parameters())
		if err != nil {
			// parameter schemas are reflected from static types
			logger.KV(xlog.ERROR,
				"status", "marshal_parameters_failed",
				"tool", t.Name(),
				"err", err.Error(),
			)
			continue
		}
		srv.AddTool(
			mcp.NewToolWithRawSchema(t.Name(), t.Description(), raw),
			toolHandler(reg, t),
		)
	}
	return srv
}

// toolHandler adapts one registered tool to the MCP tool-call contract.
func toolHandler(reg *Registry, t tools.ITool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := reg.Dispatch(ctx, t.Name(), string(input))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// ServeStdio runs the server over stdin/stdout until the context is
// cancelled or the input stream closes.
func ServeStdio(ctx context.Context, srv *server.MCPServer) error {
	stdio := server.NewStdioServer(srv)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// ServeHTTP runs the streamable HTTP transport on the given address
// until the context is cancelled.
func ServeHTTP(ctx context.Context, srv *server.MCPServer, addr string) error {
	httpSrv := server.NewStreamableHTTPServer(srv)
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()
	return httpSrv.Start(addr)
}
