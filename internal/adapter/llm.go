package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// ChatModel handles one model configuration (name + temperature). Each
// responder owns its own instance; the client itself is stateless per call
// and safe for concurrent use.
type ChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewChatModel creates a chat model bound to a fixed model name and
// temperature.
func NewChatModel(client *openai.Client, model string, temperature float64) *ChatModel {
	return &ChatModel{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		logger:      logger.Get(),
	}
}

// Model returns the configured model name.
func (m *ChatModel) Model() string {
	return m.model
}

// Tool represents a function the model may call
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition defines a callable function
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Response represents the model's reply
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolCall represents a function call requested by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Generate sends one system+user exchange to the model and returns the
// parsed response. Transient failures are retried with linear backoff.
func (m *ChatModel) Generate(ctx context.Context, systemPrompt, userMsg string, tools []Tool) (*Response, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: userMsg,
		},
	}

	openaiTools := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		openaiTools = append(openaiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    messages,
		Tools:       openaiTools,
		Temperature: m.temperature,
	}

	var resp openai.ChatCompletionResponse
	var err error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			m.logger.Warn("Retrying model request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, errors.NewProviderFault(m.model, attempt, ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = m.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		m.logger.Error("Model request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", m.model),
		)
	}

	if err != nil {
		return nil, errors.NewProviderFault(m.model, maxRetries, err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.NewProviderFault(m.model, 1, fmt.Errorf("no choices in model response"))
	}

	choice := resp.Choices[0]
	response := &Response{
		Content:   choice.Message.Content,
		ToolCalls: []ToolCall{},
	}

	for _, tc := range choice.Message.ToolCalls {
		toolCall := ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
		}

		args, err := parseJSONArguments(tc.Function.Arguments)
		if err != nil {
			m.logger.Warn("Failed to parse tool call arguments",
				zap.String("tool_id", tc.ID),
				zap.Error(err),
			)
			args = make(map[string]any)
		}
		toolCall.Arguments = args

		response.ToolCalls = append(response.ToolCalls, toolCall)
	}

	m.logger.Debug("Model response generated",
		zap.String("model", m.model),
		zap.Int("tool_calls", len(response.ToolCalls)),
		zap.Bool("has_content", response.Content != ""),
	)

	return response, nil
}

// parseJSONArguments parses the JSON string arguments into a map
func parseJSONArguments(jsonStr string) (map[string]any, error) {
	var args map[string]any
	if jsonStr == "" {
		return make(map[string]any), nil
	}

	if err := json.Unmarshal([]byte(jsonStr), &args); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return args, nil
}
