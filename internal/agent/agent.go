// Package agent implements the conversational recommendation agent: a
// Genkit tool-calling loop over the use-case retriever with bounded
// in-memory conversation history.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
)

// Sentinel errors for agent operations.
var (
	// ErrInvalidConversation indicates the conversation ID is malformed.
	ErrInvalidConversation = errors.New("invalid conversation")

	// ErrExecutionFailed indicates agent execution failed.
	ErrExecutionFailed = errors.New("execution failed")
)

// fallbackResponseMessage is returned when the model produces an empty
// response with no tool requests.
const fallbackResponseMessage = "I couldn't generate a recommendation for that. Please try rephrasing your question."

// systemPrompt defines the recommender persona and tool-usage guidance.
const systemPrompt = `You are an AI Agent Recommender Assistant. Your role is to help users find
the perfect AI agent use case from a catalog of 500+ projects.

When a user asks for recommendations:
1. Use the search_use_cases tool to find relevant use cases for their query.
2. If the user mentions a specific industry or framework, apply those filters.
3. Present recommendations clearly: use case name, industry, framework,
   complexity, description and GitHub link.
4. Explain why each recommendation is relevant to the user's needs.

You can also explain agent concepts (RAG, multi-agent orchestration, tool
calling) and help users plan a new agent when nothing in the catalog fits.
If you need to see available options, use the list_industries or
list_frameworks tools.

Be conversational and helpful, and provide context about why each
recommendation might be useful.`

// Response represents the complete result of an agent execution.
type Response struct {
	FinalText    string            // Model's final text output
	ToolRequests []*ai.ToolRequest // Tool requests made during execution
}

// StreamCallback is called for each chunk of a streaming response.
// Returning an error aborts the stream.
type StreamCallback func(ctx context.Context, chunk *ai.ModelResponseChunk) error

// Config contains the required parameters for the agent.
type Config struct {
	Genkit  *genkit.Genkit
	History *HistoryStore
	Logger  *slog.Logger
	Tools   []ai.Tool // Pre-registered via RegisterTools

	ModelName   string  // Provider-qualified model name (e.g. "googleai/gemini-2.5-flash")
	Temperature float64 // Sampling temperature passed to the model
	MaxTurns    int     // Maximum agentic loop turns

	RetryConfig RetryConfig // Zero value uses defaults
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.History == nil {
		return errors.New("history store is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	return nil
}

// Agent is the conversational recommendation agent. All configuration is
// captured at construction; Agent is safe for concurrent use.
type Agent struct {
	modelName   string
	temperature float64
	maxTurns    int
	retryConfig RetryConfig

	g        *genkit.Genkit
	history  *HistoryStore
	logger   *slog.Logger
	toolRefs []ai.ToolRef
}

// New creates an Agent.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}
	retryConfig := cfg.RetryConfig
	if retryConfig.MaxRetries == 0 {
		retryConfig = DefaultRetryConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	toolRefs := make([]ai.ToolRef, len(cfg.Tools))
	for i, t := range cfg.Tools {
		toolRefs[i] = t
	}

	a := &Agent{
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTurns:    maxTurns,
		retryConfig: retryConfig,
		g:           cfg.Genkit,
		history:     cfg.History,
		logger:      logger,
		toolRefs:    toolRefs,
	}

	a.logger.Info("recommendation agent initialized",
		"tools", len(a.toolRefs),
		"maxTurns", a.maxTurns)
	return a, nil
}

// Execute runs the agent without streaming.
func (a *Agent) Execute(ctx context.Context, conversationID uuid.UUID, input string) (*Response, error) {
	return a.ExecuteStream(ctx, conversationID, input, nil)
}

// ExecuteStream runs the agent; if callback is non-nil each response chunk
// is delivered as it is generated. The final response is always returned.
func (a *Agent) ExecuteStream(ctx context.Context, conversationID uuid.UUID, input string, callback StreamCallback) (*Response, error) {
	a.logger.Debug("executing agent",
		"conversation_id", conversationID,
		"streaming", callback != nil)

	messages := deepCopyMessages(a.history.History(conversationID))
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(input)))

	opts := []ai.GenerateOption{
		ai.WithSystem(systemPrompt),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
		ai.WithConfig(map[string]any{"temperature": a.temperature}),
	}
	if a.modelName != "" {
		opts = append(opts, ai.WithModelName(a.modelName))
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(callback))
	}

	resp, err := a.generateWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}

	responseText := resp.Text()
	if strings.TrimSpace(responseText) == "" && len(resp.ToolRequests()) == 0 {
		a.logger.Warn("model returned empty response",
			"conversation_id", conversationID)
		responseText = fallbackResponseMessage
	}

	a.history.Append(conversationID,
		ai.NewUserMessage(ai.NewTextPart(input)),
		ai.NewModelMessage(ai.NewTextPart(responseText)))

	return &Response{
		FinalText:    responseText,
		ToolRequests: resp.ToolRequests(),
	}, nil
}

// ClearConversation drops a conversation's history.
func (a *Agent) ClearConversation(conversationID uuid.UUID) {
	a.history.Clear(conversationID)
}

// deepCopyMessages creates independent copies of Message and Part structs.
// Genkit's renderMessages() modifies msg.Content in-place, which races when
// concurrent executions share message objects (observed with genkit v1.4.0).
func deepCopyMessages(msgs []*ai.Message) []*ai.Message {
	if msgs == nil {
		return nil
	}
	copied := make([]*ai.Message, len(msgs))
	for i, msg := range msgs {
		parts := make([]*ai.Part, len(msg.Content))
		for j, part := range msg.Content {
			parts[j] = deepCopyPart(part)
		}
		copied[i] = &ai.Message{
			Role:     msg.Role,
			Content:  parts,
			Metadata: shallowCopyMap(msg.Metadata),
		}
	}
	return copied
}

func deepCopyPart(p *ai.Part) *ai.Part {
	if p == nil {
		return nil
	}
	cp := &ai.Part{
		Kind:        p.Kind,
		ContentType: p.ContentType,
		Text:        p.Text,
		Custom:      shallowCopyMap(p.Custom),
		Metadata:    shallowCopyMap(p.Metadata),
	}
	if p.ToolRequest != nil {
		cp.ToolRequest = &ai.ToolRequest{
			Input: p.ToolRequest.Input,
			Name:  p.ToolRequest.Name,
			Ref:   p.ToolRequest.Ref,
		}
	}
	if p.ToolResponse != nil {
		cp.ToolResponse = &ai.ToolResponse{
			Name:   p.ToolResponse.Name,
			Output: p.ToolResponse.Output,
			Ref:    p.ToolResponse.Ref,
		}
	}
	return cp
}

func shallowCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// ParseConversationID parses a conversation ID, minting a fresh one when
// the input is empty.
func ParseConversationID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidConversation, err)
	}
	return id, nil
}
