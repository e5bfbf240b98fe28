package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockInvoker is the subset of the Bedrock runtime client we call.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type bedrockCompleter struct {
	client  bedrockInvoker
	modelID string
}

func newBedrockCompleter(ctx context.Context, region, modelID string) (*bedrockCompleter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &bedrockCompleter{client: bedrockruntime.NewFromConfig(awsCfg), modelID: modelID}, nil
}

func (c *bedrockCompleter) isAnthropicModel() bool {
	return strings.Contains(c.modelID, "anthropic.")
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float32            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

func (c *bedrockCompleter) payload(req completionRequest) ([]byte, error) {
	if c.isAnthropicModel() {
		return json.Marshal(anthropicRequest{
			AnthropicVersion: "bedrock-2023-05-31",
			System:           req.System,
			Messages:         []anthropicMessage{{Role: "user", Content: req.User}},
			MaxTokens:        req.MaxTokens,
			Temperature:      req.Temperature,
		})
	}
	// Amazon Titan has no system role
	return json.Marshal(map[string]interface{}{
		"inputText": req.System + "\n\n" + req.User,
		"textGenerationConfig": map[string]interface{}{
			"maxTokenCount": req.MaxTokens,
			"temperature":   req.Temperature,
		},
	})
}

func (c *bedrockCompleter) Complete(ctx context.Context, req completionRequest) (string, error) {
	body, err := c.payload(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	if c.isAnthropicModel() {
		var out anthropicResponse
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var b strings.Builder
		for _, part := range out.Content {
			if part.Type == "" || part.Type == "text" {
				b.WriteString(part.Text)
			}
		}
		return b.String(), nil
	}

	var out titanResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
	}
	if len(out.Results) == 0 {
		return "", ErrEmptyCompletion
	}
	return out.Results[0].OutputText, nil
}
