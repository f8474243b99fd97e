package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
	"github.com/loopcrm/loopcrm/internal/utils"
)

// Generator is an implementation of the ContentGenerator interface using
// OpenAI chat completions.
type Generator struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxPromptSize int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// contentResponse is the structured response expected from the model.
type contentResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewGenerator creates a new OpenAI content generator.
func NewGenerator(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxPromptSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Generator {
	return &Generator{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxPromptSize: maxPromptSize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are a marketing copywriter for an email marketing platform. Write %s content for an email campaign.
Respond with a JSON object containing:
- subject: string (the email subject line)
- body: string (the email body text, plain text)

Topic: %s
Tone: %s
Audience: %s

Respond only with the JSON object and nothing else.`,
	}
}

// GenerateContent produces marketing copy for the given request.
func (g *Generator) GenerateContent(ctx context.Context, req *core.ContentRequest) (*core.GeneratedContent, error) {
	topic := g.textProcessor.ProcessText(req.Topic, g.maxPromptSize)
	prompt := fmt.Sprintf(g.promptFormat, req.Type, topic, req.Tone, req.Audience)

	chatReq := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a marketing copywriter. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
	}

	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json_object",
	}
	chatReq.ResponseFormat = &responseFormat

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	content, err := parseContentResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &core.GeneratedContent{
		Subject:     content.Subject,
		Body:        content.Body,
		Model:       g.modelName,
		GeneratedAt: time.Now(),
	}, nil
}

// parseContentResponse unmarshals the model output, falling back to the
// first balanced JSON object embedded in the text.
func parseContentResponse(responseText string) (*contentResponse, error) {
	var content contentResponse
	if err := json.Unmarshal([]byte(responseText), &content); err == nil {
		return &content, nil
	}

	jsonStart := -1
	jsonEnd := -1
	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}
	if jsonStart < 0 || jsonStart >= jsonEnd {
		return nil, fmt.Errorf("failed to extract JSON from LLM response")
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &content); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return &content, nil
}
