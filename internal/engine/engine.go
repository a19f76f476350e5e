// Package engine wraps the external reasoning model behind one text-in,
// text-out call.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"warroom/internal/config"
)

// Engine is the reasoning engine adapter: a single synchronous completion
// call with no retry and no streaming. Upstream failures propagate as one
// wrapped error; the caller decides whether to stop or degrade.
type Engine struct {
	cm model.BaseChatModel
}

// New builds the chat model once from config. The handle lives for the
// process lifetime.
func New(ctx context.Context, cfg *config.Config) (*Engine, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		conf := &openai.ChatModelConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.Model,
		}
		if cfg.BackendURL != "" {
			conf.BaseURL = cfg.BackendURL
		}
		cm, err := openai.NewChatModel(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return &Engine{cm: cm}, nil

	case "deepseek", "":
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.Model,
			MaxTokens: 4096,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek chat model: %w", err)
		}
		return &Engine{cm: cm}, nil
	}

	return nil, fmt.Errorf("unknown llm provider %q (want openai or deepseek)", cfg.LLMProvider)
}

// NewWithModel wraps an existing chat model, mainly for tests.
func NewWithModel(cm model.BaseChatModel) *Engine {
	return &Engine{cm: cm}
}

// Generate sends the assembled prompt and returns the raw response text.
func (e *Engine) Generate(ctx context.Context, fullPrompt string) (string, error) {
	msg, err := e.cm.Generate(ctx, []*schema.Message{
		schema.UserMessage(fullPrompt),
	})
	if err != nil {
		return "", fmt.Errorf("reasoning engine call: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("reasoning engine returned no message")
	}
	return msg.Content, nil
}
