package inference

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hupe1980/shopmesh/internal/util"
)

// RequestOptions override per-call generation parameters. Nil fields fall
// back to the client configuration.
type RequestOptions struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// TokenUsage reports approximate token counts for a generation call. The
// endpoint does not return usage, so counts are estimated from word counts.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// TextGenerationResponse is the validated result of a text generation call.
type TextGenerationResponse struct {
	Text  string     `json:"text"`
	Model string     `json:"model"`
	Usage TokenUsage `json:"usage"`
}

// GenerateTextInput names the parameters of GenerateText.
type GenerateTextInput struct {
	Prompt string
	// Model overrides the configured text model when non-empty.
	Model   string
	Options *RequestOptions
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// generationItem is the raw endpoint shape for text generation; the
// endpoint returns either a bare object or a one-element array of it.
type generationItem struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateText runs the text generation operation. The raw response may be
// an object or an array of objects; an empty generated_text fails with a
// ResponseError. Whitespace runs in the output are collapsed to single
// spaces.
func (c *Client) GenerateText(ctx context.Context, input GenerateTextInput) (*TextGenerationResponse, error) {
	model := input.Model
	if model == "" {
		model = c.cfg.TextModel
	}

	temperature := c.cfg.Temperature
	maxTokens := c.cfg.MaxTokens
	topP := c.cfg.TopP
	if opts := input.Options; opts != nil {
		if opts.Temperature != nil {
			temperature = *opts.Temperature
		}
		if opts.MaxTokens != nil {
			maxTokens = *opts.MaxTokens
		}
		if opts.TopP != nil {
			topP = *opts.TopP
		}
	}

	payload := map[string]any{
		"inputs": input.Prompt,
		"parameters": map[string]any{
			"temperature":      temperature,
			"max_new_tokens":   maxTokens,
			"top_p":            topP,
			"return_full_text": false,
		},
	}

	raw, err := c.Invoke(ctx, model, payload, InvokeOptions{})
	if err != nil {
		return nil, err
	}

	generated, err := extractGeneratedText(raw)
	if err != nil {
		return nil, err
	}

	text := util.NormalizeWhitespace(generated)
	promptTokens := util.ApproximateTokenCount(input.Prompt)
	completionTokens := util.ApproximateTokenCount(text)

	return &TextGenerationResponse{
		Text:  text,
		Model: model,
		Usage: TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// GenerateChatCompletion flattens the conversation into a single prompt and
// runs it through the configured chat model.
func (c *Client) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, options *RequestOptions) (*TextGenerationResponse, error) {
	return c.GenerateText(ctx, GenerateTextInput{
		Prompt:  BuildChatPrompt(messages),
		Model:   c.cfg.ChatModel,
		Options: options,
	})
}

// BuildChatPrompt renders chat messages as "ROLE: content" blocks separated
// by blank lines.
func BuildChatPrompt(messages []ChatMessage) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = strings.ToUpper(m.Role) + ": " + m.Content
	}
	return strings.Join(parts, "\n\n")
}

func extractGeneratedText(raw json.RawMessage) (string, error) {
	var items []generationItem
	if err := json.Unmarshal(raw, &items); err == nil {
		if len(items) == 0 || items[0].GeneratedText == "" {
			return "", NewResponseError("text generation returned empty output")
		}
		return items[0].GeneratedText, nil
	}

	var item generationItem
	if err := json.Unmarshal(raw, &item); err != nil || item.GeneratedText == "" {
		return "", NewResponseError("text generation returned empty output")
	}
	return item.GeneratedText, nil
}
