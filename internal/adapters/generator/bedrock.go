package generator

import (
	"bedrockbot/internal/core/domain"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTextModelID  = "amazon.titan-text-premier-v1:0"
	DefaultImageModelID = "amazon.titan-image-generator-v2:0"

	// ThrottleMarker identifies throttling failures in error descriptions.
	ThrottleMarker = "ThrottlingException"

	contentTypeJSON = "application/json"
)

// BedrockClient is the subset of *bedrockruntime.Client used by the generator.
type BedrockClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type BedrockParams struct {
	Client       BedrockClient
	TextModelID  string
	ImageModelID string
	Text         domain.TextConfig
	Image        domain.ImageConfig
}

// Bedrock generates text and images with the Amazon Titan models.
type Bedrock struct {
	client       BedrockClient
	textModelID  string
	imageModelID string
	text         domain.TextConfig
	image        domain.ImageConfig
}

func NewBedrock(p BedrockParams) *Bedrock {
	b := &Bedrock{
		client:       p.Client,
		textModelID:  p.TextModelID,
		imageModelID: p.ImageModelID,
		text:         p.Text,
		image:        p.Image,
	}

	if b.textModelID == "" {
		b.textModelID = DefaultTextModelID
	}
	if b.imageModelID == "" {
		b.imageModelID = DefaultImageModelID
	}
	if b.image.Count <= 0 {
		b.image.Count = 1
	}

	return b
}

type titanTextRequest struct {
	InputText            string              `json:"inputText"`
	TextGenerationConfig titanTextGeneration `json:"textGenerationConfig"`
}

type titanTextGeneration struct {
	MaxTokenCount int     `json:"maxTokenCount,omitempty"`
	Temperature   float64 `json:"temperature"`
}

type titanTextResponse struct {
	Results []struct {
		TokenCount       int    `json:"tokenCount"`
		OutputText       string `json:"outputText"`
		CompletionReason string `json:"completionReason"`
	} `json:"results"`
}

func (b *Bedrock) GenerateText(ctx context.Context, prompt domain.TextPrompt) (string, error) {
	payload, err := json.Marshal(titanTextRequest{
		InputText: domain.RenderPrompt(prompt),
		TextGenerationConfig: titanTextGeneration{
			MaxTokenCount: b.text.MaxTokens,
			Temperature:   b.text.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("error encoding bedrock text request: %w", err)
	}

	body, err := b.invoke(ctx, b.textModelID, payload)
	if err != nil {
		return "", err
	}

	var result titanTextResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error unmarshalling bedrock text response: %w", err)
	}

	if len(result.Results) == 0 {
		return "", errors.New("no results returned from bedrock text response")
	}

	log.Debug().
		Str("model", b.textModelID).
		Int("tokens", result.Results[0].TokenCount).
		Str("completionReason", result.Results[0].CompletionReason).
		Msg("bedrock text response")

	return strings.TrimSpace(result.Results[0].OutputText), nil
}

type titanImageRequest struct {
	TaskType              string               `json:"taskType"`
	TextToImageParams     titanTextToImage     `json:"textToImageParams"`
	ImageGenerationConfig titanImageGeneration `json:"imageGenerationConfig"`
}

type titanTextToImage struct {
	Text string `json:"text"`
}

type titanImageGeneration struct {
	CfgScale       float64 `json:"cfgScale"`
	Seed           int     `json:"seed"`
	Quality        string  `json:"quality"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	NumberOfImages int     `json:"numberOfImages"`
}

type titanImageResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

// GenerateFromPrompt returns the first generated image. Throttling failures wrap domain.ErrThrottled and a
// response without images returns domain.ErrNoImageData.
func (b *Bedrock) GenerateFromPrompt(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	payload, err := json.Marshal(titanImageRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: titanTextToImage{Text: prompt},
		ImageGenerationConfig: titanImageGeneration{
			CfgScale:       b.image.Scale,
			Seed:           b.image.Seed,
			Quality:        b.image.Quality,
			Width:          b.image.Width,
			Height:         b.image.Height,
			NumberOfImages: b.image.Count,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding bedrock image request: %w", err)
	}

	body, err := b.invoke(ctx, b.imageModelID, payload)
	if err != nil {
		return nil, err
	}

	var result titanImageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling bedrock image response: %w", err)
	}

	if len(result.Images) == 0 {
		if result.Error != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoImageData, result.Error)
		}
		return nil, domain.ErrNoImageData
	}

	image, err := base64.StdEncoding.DecodeString(result.Images[0])
	if err != nil {
		return nil, fmt.Errorf("error decoding bedrock image: %w", err)
	}

	log.Debug().Str("model", b.imageModelID).Int("bytes", len(image)).Msg("bedrock image response")

	return image, nil
}

func (b *Bedrock) invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	log.Debug().Str("model", modelID).Msg("invoking bedrock model")

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
		Body:        payload,
	})
	if err != nil {
		if IsThrottling(err) {
			return nil, fmt.Errorf("bedrock API error: %w: %w", domain.ErrThrottled, err)
		}
		return nil, fmt.Errorf("bedrock API error: %w", err)
	}

	return out.Body, nil
}

// IsThrottling reports whether err is a Bedrock throttling failure, either typed or by its description.
func IsThrottling(err error) bool {
	if err == nil {
		return false
	}

	var te *types.ThrottlingException
	if errors.As(err, &te) {
		return true
	}

	return strings.Contains(err.Error(), ThrottleMarker)
}
