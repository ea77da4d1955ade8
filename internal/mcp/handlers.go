// ABOUTME: MCP tool handler implementations for the certpost server
// ABOUTME: Processing is serialized so documents are handled one at a time
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harper/certpost/internal/core"
	"github.com/harper/certpost/internal/intake"
	"github.com/harper/certpost/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	inbox       string
	defaultTone string
	pipeline    *core.Pipeline
	tracker     *core.RotationTracker
	logger      *zap.Logger

	mu       sync.Mutex      // one document at a time
	inflight *sync.WaitGroup // processing still running at shutdown
}

type pendingDocument struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	HasNotes bool   `json:"has_notes"`
}

// ListPending handles the list_pending tool
func (h *Handlers) ListPending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	match, err := intake.CompileMatch(request.GetString("match", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docs, err := intake.Scan(h.inbox, match)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to scan inbox: %v", err)), nil
	}

	pending := make([]pendingDocument, 0, len(docs))
	for _, doc := range docs {
		pending = append(pending, pendingDocument{
			Name:     doc.Name,
			MimeType: doc.MimeType,
			HasNotes: intake.NotesFile(doc) != "",
		})
	}

	return jsonResult(map[string]interface{}{
		"inbox":     h.inbox,
		"documents": pending,
	})
}

// ProcessDocument handles the process_document tool
func (h *Handlers) ProcessDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document argument is required and must be a string"), nil
	}
	if h.pipeline == nil {
		return mcp.NewToolResultError("no model credentials configured; set GOOGLE_API_KEY or OPENAI_API_KEY"), nil
	}

	tone := request.GetString("tone", h.defaultTone)
	typed := request.GetString("notes", "")

	h.inflight.Add(1)
	defer h.inflight.Done()
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := intake.Find(h.inbox, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	notes, _, err := intake.ReadNotes(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if notes == "" {
		notes = typed
	}

	outcome, err := h.pipeline.Process(ctx, doc, notes, tone)
	if err != nil {
		h.logger.Error("process_document failed", zap.String("document", doc.Name), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to process %s: %v", doc.Name, err)), nil
	}

	return jsonResult(map[string]interface{}{
		"run_id":      outcome.RunID,
		"destination": outcome.Destination,
		"post_path":   outcome.PostPath,
		"post":        outcome.Body,
		"metadata":    outcome.Metadata,
		"flagged":     outcome.Flag != nil,
	})
}

// RotationStatus handles the rotation_status tool
func (h *Handlers) RotationStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recent, err := h.tracker.Recent()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"recent":  shapeStrings(recent),
		"allowed": shapeStrings(core.AllowedShapes(recent)),
		"limit":   h.tracker.Limit(),
	})
}

// Shutdown waits for in-flight processing to complete
func (h *Handlers) Shutdown() {
	h.inflight.Wait()
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func shapeStrings(shapes []models.Shape) []string {
	out := make([]string, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, string(s))
	}
	return out
}
