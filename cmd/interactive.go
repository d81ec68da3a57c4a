package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentscout/agentscout/internal/app"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start a conversational recommendation session",
	Long: `Interactive starts a REPL where you describe what you need in natural
language and the assistant recommends matching use cases, using the
index as its knowledge base.

Session commands:
  /clear  forget the conversation so far
  /exit   leave the session (Ctrl+D also works)`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// newMarkdownRenderer builds a glamour renderer for assistant replies.
// Returns nil on failure; callers fall back to plain text.
func newMarkdownRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown converts Markdown to styled terminal output, returning the
// original text if rendering fails.
func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if r == nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSuffix(rendered, "\n")
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	out := cmd.OutOrStdout()
	renderer := newMarkdownRenderer()
	conversationID := uuid.New()

	fmt.Fprintf(out, "AgentScout %s (%s)\n", Version, cfg.ModelName)
	fmt.Fprintln(out, "Describe the AI agent you need. /clear resets, /exit quits.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case input == "/exit" || input == "/quit":
			return nil
		case input == "/clear":
			a.Agent.ClearConversation(conversationID)
			conversationID = uuid.New()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		resp, err := a.Agent.Execute(ctx, conversationID, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}

		fmt.Fprintln(out, renderMarkdown(renderer, resp.FinalText))
		fmt.Fprintln(out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
