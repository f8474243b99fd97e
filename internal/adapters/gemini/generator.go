package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/loopcrm/loopcrm/internal/core"
	"github.com/loopcrm/loopcrm/internal/utils"
)

// Generator is an implementation of the ContentGenerator interface using
// Google Gemini.
type Generator struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
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

// NewGenerator creates a new Gemini content generator.
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxPromptSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Generator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Generator{
		client:        client,
		model:         model,
		modelName:     modelName,
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
	}, nil
}

// Close closes the Gemini client.
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// GenerateContent produces marketing copy for the given request.
func (g *Generator) GenerateContent(ctx context.Context, req *core.ContentRequest) (*core.GeneratedContent, error) {
	topic := g.textProcessor.ProcessText(req.Topic, g.maxPromptSize)
	prompt := fmt.Sprintf(g.promptFormat, req.Type, topic, req.Tone, req.Audience)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	content, err := parseContentResponse(responseText)
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
