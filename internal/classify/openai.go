package classify

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// OpenAIClient implements Client using the OpenAI Responses API.
type OpenAIClient struct {
	client openai.Client
	config *ClientConfig
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *ClientConfig, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// Generate sends the system instruction and user payload to the configured
// model tier and returns the raw response text.
func (c *OpenAIClient) Generate(ctx context.Context, system, user string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	params := responses.ResponseNewParams{
		Model: openai.ChatModel(modelName),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(user),
		},
	}
	if system != "" {
		params.Instructions = openai.String(system)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("no text in response")
	}

	return text, nil
}

// Provider identifies the backing provider.
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Close releases resources held by the client. The OpenAI client holds no
// long-lived connections.
func (c *OpenAIClient) Close() error {
	return nil
}
