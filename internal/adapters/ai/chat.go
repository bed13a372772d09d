package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
)

var ErrEmptyReply = errors.New("model returned an empty reply")

type OpenAIConfig struct {
	APIKey    string
	ModelName string
	BaseURL   string
	Timeout   time.Duration
}

// NewOpenAIChatModel builds a chat model for any OpenAI-compatible endpoint.
func NewOpenAIChatModel(ctx context.Context, cfg OpenAIConfig) (model.BaseChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4o-mini"
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		Model:   cfg.ModelName,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return cm, nil
}

// completeJSON renders tpl with vars, sends it to the model and decodes the
// JSON part of the reply into out.
func completeJSON(
	ctx context.Context,
	cm model.BaseChatModel,
	tpl prompt.ChatTemplate,
	vars map[string]any,
	out any,
) error {
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return fmt.Errorf("format prompt: %w", err)
	}

	reply, err := cm.Generate(ctx, msgs)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return ErrEmptyReply
	}

	if err := sonic.UnmarshalString(extractJSON(reply.Content), out); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

// extractJSON returns the outermost JSON object or array in s, dropping
// markdown fences and any prose around it.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return strings.TrimSpace(s)
	}

	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}

	end := strings.LastIndexByte(s, closer)
	if end < start {
		return strings.TrimSpace(s[start:])
	}
	return s[start : end+1]
}
