// Package anthropic provides a model.Completer backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/clarvishq/clarvis/model"
)

// Options configures the Anthropic completer (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Completer wraps the Anthropic Messages API behind model.Completer.
type Completer struct {
	client *anthropic.Client
	opts   Options
}

var _ model.Completer = (*Completer)(nil)

// NewCompleter creates a new Anthropic completer using the official client.
func NewCompleter(optFns ...func(o *Options)) *Completer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Completer{client: &client, opts: opts}
}

// NewCompleterFromClient creates a new Anthropic completer from an existing
// client.
func NewCompleterFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Completer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Completer{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

// Complete implements model.Completer. It issues a single non-streaming
// Messages call and concatenates the text blocks of the reply.
func (c *Completer) Complete(
	ctx context.Context,
	systemPrompt string,
	messages []model.Message,
) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		Messages:    buildMessages(messages),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	// The reply is a union of block shapes; handle each explicitly and keep
	// only text.
	var b strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			b.WriteString(block.AsText().Text)
		case "tool_use", "thinking", "redacted_thinking", "server_tool_use", "web_search_tool_result":
			// Non-text blocks carry nothing usable for a plain completion.
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic response contained no text content")
	}
	return b.String(), nil
}

// buildMessages converts normalized messages to Anthropic message params.
// Unknown roles are treated as user input.
func buildMessages(messages []model.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}
