// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Работает только через интерфейс llm.Provider: пайплайн фасетирования
// не знает, какой именно провайдер стоит за классификатором.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/facet-ai/pkg/config"
	"github.com/ilkoid/facet-ai/pkg/llm"
	"github.com/ilkoid/facet-ai/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// Использует APIKey из конфигурации для аутентификации.
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров (Zai, DeepSeek и т.д.)
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	client := openai.NewClientWithConfig(cfg)

	return &Client{
		api:   client,
		model: modelDef.ModelName,
	}
}

// Chat выполняет запрос к API и возвращает текст ответа модели.
//
// Алгоритм:
//  1. Конвертирует внутренние сообщения в формат OpenAI SDK
//  2. Вызывает API с температурой и лимитом токенов из запроса
//  3. Возвращает содержимое первого choice
//
// Все ошибки возвращаются, никаких panic.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	startTime := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	utils.Debug("LLM request started",
		"model", model,
		"messages_count", len(req.Messages),
		"temperature", req.Temperature)

	// 1. Конвертируем наши сообщения в формат OpenAI SDK
	openaiMsgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		openaiMsgs[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    openaiMsgs,
		Temperature: float32(req.Temperature),
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = req.MaxTokens
	}

	// 2. Вызываем API
	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Проверяем что есть хотя бы один выбор
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content

	utils.Info("LLM response received",
		"model", model,
		"content_length", len(content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return content, nil
}
