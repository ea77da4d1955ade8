// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets agents list, process and inspect certificates over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/certpost/internal/core"
	"github.com/harper/certpost/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the inbox and post generator to MCP clients",
		Long: `Run certpost as a Model Context Protocol server on stdio.

Agents can list pending certificates, generate a post for one of them
and check which post shapes are available next. Generation needs the
same API key as 'certpost process'; without it the other tools still work.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  certpost mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "certpost": {
  #       "command": "certpost",
  #       "args": ["mcp", "--home", "/path/to/certs"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.cfg.EnsureDirs(); err != nil {
		return err
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Listing and rotation work without a model; processing needs one
	var pipeline *core.Pipeline
	if p, err := e.buildPipeline(ctx); err != nil {
		e.logger.Warn("process_document disabled", zap.Error(err))
	} else {
		pipeline = p
	}

	server := mcpserver.NewMCPServer("certpost", versionInfo.Version)
	handlers := mcp.RegisterTools(server, mcp.Options{
		Inbox:       e.cfg.InboxDir(),
		DefaultTone: e.cfg.Tone,
		Pipeline:    pipeline,
		Tracker:     e.tracker,
		Logger:      e.logger,
	})

	e.logger.Info("MCP server starting on stdio", zap.String("home", e.cfg.Home))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		e.logger.Info("shutdown signal received")
		handlers.Shutdown()

	case err := <-serverErr:
		handlers.Shutdown()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
