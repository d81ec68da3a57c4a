package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/firebase/genkit/go/genkit"

	"github.com/agentscout/agentscout/internal/agent"
)

// Chat serves the conversational endpoints via the Genkit flow.
//
// Endpoints:
//   - POST /api/v1/chat        - Synchronous chat (JSON request/response)
//   - POST /api/v1/chat/stream - Streaming chat (SSE - Server-Sent Events)
//
// The synchronous endpoint uses genkit.Handler(); streaming uses a custom
// SSE handler. Both go through the same flow for consistency.
type Chat struct {
	flow   *agent.Flow
	logger *slog.Logger
}

// NewChat creates a chat handler around the flow from agent.NewFlow.
func NewChat(flow *agent.Flow, logger *slog.Logger) *Chat {
	return &Chat{flow: flow, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
// If flow is nil, routes are not registered and requests will return 404.
func (h *Chat) RegisterRoutes(mux *http.ServeMux) {
	if h.flow == nil {
		h.logger.Warn("chat flow not configured, skipping route registration")
		return
	}

	// Synchronous endpoint using Genkit's built-in handler
	mux.Handle("POST /api/v1/chat", genkit.Handler(h.flow))

	// SSE streaming endpoint
	mux.HandleFunc("POST /api/v1/chat/stream", h.Stream)
}

// SSE event types for chat streaming.
const (
	EventChunk = "chunk" // Partial response text
	EventDone  = "done"  // Stream completed successfully
	EventError = "error" // Error occurred during streaming
)

// ChunkPayload is the SSE data payload for streaming text chunks.
type ChunkPayload struct {
	Text string `json:"text"`
}

// DonePayload is the SSE data payload when streaming completes successfully.
type DonePayload struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId"`
}

// ErrorPayload is the SSE data payload when an error occurs.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stream handles SSE streaming chat requests.
// It streams partial responses as they become available from the LLM.
func (h *Chat) Stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var input agent.Input
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "Invalid request body",
		})
		return
	}

	if input.Message == "" {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "MISSING_MESSAGE", Message: "message is required"})
		return
	}

	// Defensive nil check before streaming (normally routes aren't registered if flow is nil)
	if h.flow == nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "FLOW_NOT_CONFIGURED", Message: "chat flow not configured"})
		return
	}

	ctx := r.Context()
	h.logger.Debug("SSE stream started", "conversationId", input.ConversationID)

	var (
		finalOutput agent.Output
		streamErr   error
		hasChunks   bool
	)

	for streamValue, err := range h.flow.Stream(ctx, input) {
		select {
		case <-ctx.Done():
			h.logger.Info("client disconnected", "conversationId", input.ConversationID)
			return
		default:
		}

		if err != nil {
			streamErr = err
			break
		}

		if streamValue.Done {
			finalOutput = streamValue.Output
			break
		}

		if streamValue.Stream.Text != "" {
			hasChunks = true
			if err := writeEvent(w, flusher, EventChunk, ChunkPayload{
				Text: streamValue.Stream.Text,
			}); err != nil {
				h.logger.Error("failed to write chunk", "err", err)
				return // Write failure usually means connection closed
			}
		}
	}

	if streamErr != nil {
		h.handleStreamError(w, flusher, streamErr)
		return
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{
		Reply:          finalOutput.Reply,
		ConversationID: finalOutput.ConversationID,
	})

	h.logger.Info("SSE stream completed", "conversationId", finalOutput.ConversationID, "chunks", hasChunks)
}

// handleStreamError maps agent errors to SSE error events.
func (*Chat) handleStreamError(w io.Writer, f http.Flusher, err error) {
	code := "STREAM_ERROR"

	switch {
	case errors.Is(err, agent.ErrInvalidConversation):
		code = "INVALID_CONVERSATION"
	case errors.Is(err, agent.ErrExecutionFailed):
		code = "EXECUTION_FAILED"
	}

	_ = writeEvent(w, f, EventError, ErrorPayload{
		Code:    code,
		Message: err.Error(),
	})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
