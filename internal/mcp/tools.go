// ABOUTME: MCP tool definitions and registration for the certpost server
// ABOUTME: Exposes the inbox, the pipeline and the rotation history to agents
package mcp

import (
	"sync"

	"github.com/harper/certpost/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Options configures the tool handlers
type Options struct {
	Inbox       string
	DefaultTone string
	// Pipeline is nil when no model credentials are configured
	Pipeline *core.Pipeline
	Tracker  *core.RotationTracker
	Logger   *zap.Logger
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, opts Options) *Handlers {
	handlers := NewHandlers(opts)

	// 1. list_pending - documents waiting in the inbox
	server.AddTool(mcp.Tool{
		Name:        "list_pending",
		Description: "List certificates waiting in the inbox, in the order they would be processed, and whether each has a notes file.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match": map[string]interface{}{
					"type":        "string",
					"description": "Optional glob to filter filenames (e.g. 'bls-*')",
				},
			},
		},
	}, handlers.ListPending)

	// 2. process_document - generate a post and archive the document
	server.AddTool(mcp.Tool{
		Name:        "process_document",
		Description: "Generate a LinkedIn post for one certificate in the inbox, then file the certificate, its notes and the post under done/<category>/<short_name>/.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document": map[string]interface{}{
					"type":        "string",
					"description": "Filename of the certificate in the inbox",
				},
				"tone": map[string]interface{}{
					"type":        "string",
					"description": "Post tone: casual, formal or default",
					"enum":        []string{"casual", "formal", "default"},
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Context to use when the certificate has no notes file",
				},
			},
			Required: []string{"document"},
		},
	}, handlers.ProcessDocument)

	// 3. rotation_status - recently used shapes
	server.AddTool(mcp.Tool{
		Name:        "rotation_status",
		Description: "Show the recently used post shapes and which shapes the next post may use.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.RotationStatus)

	return handlers
}

// NewHandlers creates handlers without registering them
func NewHandlers(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		inbox:       opts.Inbox,
		defaultTone: opts.DefaultTone,
		pipeline:    opts.Pipeline,
		tracker:     opts.Tracker,
		logger:      logger,
		inflight:    &sync.WaitGroup{},
	}
}
