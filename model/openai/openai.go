// Package openai provides a model.Completer backed by the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/clarvishq/clarvis/model"
)

// Options configures the OpenAI completer. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without breaking
// callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Completer wraps the OpenAI Chat Completions API behind model.Completer.
type Completer struct {
	client *openai.Client
	opts   Options
}

var _ model.Completer = (*Completer)(nil)

// NewCompleter creates a new OpenAI completer using the official client.
func NewCompleter(optFns ...func(o *Options)) *Completer {
	client := openai.NewClient()
	return NewCompleterFromClient(&client, optFns...)
}

// NewCompleterFromClient creates a new OpenAI completer from an existing
// client.
func NewCompleterFromClient(client *openai.Client, optFns ...func(o *Options)) *Completer {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Completer{client: client, opts: opts}
}

// Complete implements model.Completer with a single non-streaming chat
// completion.
func (c *Completer) Complete(
	ctx context.Context,
	systemPrompt string,
	messages []model.Message,
) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:               c.opts.Model,
		Messages:            buildMessages(systemPrompt, messages),
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("openai response contained no text content")
	}
	return content, nil
}

// buildMessages converts normalized messages into OpenAI chat messages,
// prepending the system prompt when present. Unknown roles are treated as
// user input.
func buildMessages(systemPrompt string, messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, openai.SystemMessage(systemPrompt))
	}
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
