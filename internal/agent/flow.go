package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// Input defines the request payload for the chat flow.
type Input struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"` // Empty starts a new conversation
}

// Output defines the response payload from the chat flow.
type Output struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId"`
}

// StreamChunk is the streaming output type for the chat flow.
type StreamChunk struct {
	Text string `json:"text"`
}

// FlowName is the registered name of the chat flow in Genkit.
const FlowName = "agentscout/chat"

// Flow is the type alias for the agent's Genkit streaming flow.
type Flow = core.Flow[Input, Output, StreamChunk]

// Package-level singleton: genkit.DefineStreamingFlow panics when the same
// flow name is registered twice.
var (
	flowOnce sync.Once
	flow     *Flow
)

// NewFlow returns the chat flow singleton, initializing it on first call.
func NewFlow(g *genkit.Genkit, agent *Agent) *Flow {
	flowOnce.Do(func() {
		flow = agent.DefineFlow(g)
	})
	return flow
}

// ResetFlowForTesting resets the flow singleton. Only use in tests.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
}

// DefineFlow defines the Genkit streaming flow wrapping Agent.ExecuteStream.
// Use NewFlow instead of calling this directly.
func (a *Agent) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineStreamingFlow(g, FlowName,
		func(ctx context.Context, input Input, streamCb func(context.Context, StreamChunk) error) (Output, error) {
			conversationID, err := ParseConversationID(input.ConversationID)
			if err != nil {
				return Output{ConversationID: input.ConversationID}, err
			}

			var callback StreamCallback
			if streamCb != nil {
				callback = func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
					if chunk == nil {
						return nil
					}
					for _, part := range chunk.Content {
						if part.Text == "" {
							continue
						}
						if streamErr := streamCb(ctx, StreamChunk{Text: part.Text}); streamErr != nil {
							return streamErr
						}
					}
					return nil
				}
			}

			resp, err := a.ExecuteStream(ctx, conversationID, input.Message, callback)
			if err != nil {
				return Output{ConversationID: conversationID.String()},
					fmt.Errorf("%w: %w", ErrExecutionFailed, err)
			}

			return Output{
				Reply:          resp.FinalText,
				ConversationID: conversationID.String(),
			}, nil
		},
	)
}
