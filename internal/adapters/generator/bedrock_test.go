package generator

import (
	"bedrockbot/internal/core/domain"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBedrockClient struct {
	body  string
	err   error
	input *bedrockruntime.InvokeModelInput
	calls int
}

func (m *mockBedrockClient) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput,
	_ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	m.input = params
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(m.body)}, nil
}

func newTestBedrock(client *mockBedrockClient) *Bedrock {
	return NewBedrock(BedrockParams{
		Client: client,
		Text:   domain.TextConfig{MaxTokens: 2000, Temperature: 0.9},
		Image: domain.ImageConfig{
			Scale:   8.0,
			Seed:    0,
			Quality: "standard",
			Width:   512,
			Height:  512,
		},
	})
}

func TestBedrock_GenerateText(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantText string
		wantErr  bool
	}{
		{
			name:     "success",
			body:     `{"inputTextTokenCount":5,"results":[{"tokenCount":3,"outputText":"\nParis","completionReason":"FINISH"}]}`,
			wantText: "Paris",
		},
		{
			name:    "api error",
			err:     errors.New("AccessDeniedException: no access"),
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			body:    `{not_json}`,
			wantErr: true,
		},
		{
			name:    "no results",
			body:    `{"results":[]}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &mockBedrockClient{body: tc.body, err: tc.err}

			got, err := newTestBedrock(client).GenerateText(t.Context(),
				domain.TextPrompt{Language: "english", Text: "What is the capital of France?"})
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantText, got)

			assert.Equal(t, DefaultTextModelID, aws.ToString(client.input.ModelId))
			assert.Equal(t, "application/json", aws.ToString(client.input.ContentType))
			assert.Equal(t, "application/json", aws.ToString(client.input.Accept))

			var sent map[string]any
			require.NoError(t, json.Unmarshal(client.input.Body, &sent))
			assert.Equal(t, "You are a chatbot. You are in english.\n\nWhat is the capital of France?", sent["inputText"])
			assert.Equal(t, map[string]any{"maxTokenCount": 2000.0, "temperature": 0.9}, sent["textGenerationConfig"])
		})
	}
}

func TestBedrock_GenerateFromPrompt(t *testing.T) {
	png := []byte("\x89PNG fake")
	encoded := base64.StdEncoding.EncodeToString(png)

	tests := []struct {
		name          string
		prompt        string
		body          string
		err           error
		want          []byte
		wantErr       error
		wantThrottled bool
		wantCalls     int
	}{
		{
			name:      "success",
			prompt:    "a cat",
			body:      fmt.Sprintf(`{"images":["%s"]}`, encoded),
			want:      png,
			wantCalls: 1,
		},
		{
			name:      "empty prompt",
			prompt:    "  ",
			wantErr:   domain.ErrEmptyPrompt,
			wantCalls: 0,
		},
		{
			name:          "typed throttling",
			prompt:        "a cat",
			err:           &types.ThrottlingException{Message: aws.String("Too many requests")},
			wantErr:       domain.ErrThrottled,
			wantThrottled: true,
			wantCalls:     1,
		},
		{
			name:          "throttling marker in description",
			prompt:        "a cat",
			err:           errors.New("operation error: ThrottlingException: rate exceeded"),
			wantErr:       domain.ErrThrottled,
			wantThrottled: true,
			wantCalls:     1,
		},
		{
			name:      "missing images",
			prompt:    "a cat",
			body:      `{}`,
			wantErr:   domain.ErrNoImageData,
			wantCalls: 1,
		},
		{
			name:      "error field",
			prompt:    "a cat",
			body:      `{"images":[],"error":"content filtered"}`,
			wantErr:   domain.ErrNoImageData,
			wantCalls: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &mockBedrockClient{body: tc.body, err: tc.err}

			got, err := newTestBedrock(client).GenerateFromPrompt(t.Context(), tc.prompt)
			assert.Equal(t, tc.wantCalls, client.calls)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.wantThrottled, errors.Is(err, domain.ErrThrottled))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, DefaultImageModelID, aws.ToString(client.input.ModelId))

			var sent titanImageRequest
			require.NoError(t, json.Unmarshal(client.input.Body, &sent))
			assert.Equal(t, titanImageRequest{
				TaskType:          "TEXT_IMAGE",
				TextToImageParams: titanTextToImage{Text: "a cat"},
				ImageGenerationConfig: titanImageGeneration{
					CfgScale:       8.0,
					Seed:           0,
					Quality:        "standard",
					Width:          512,
					Height:         512,
					NumberOfImages: 1,
				},
			}, sent)
		})
	}
}

func TestBedrock_GenerateFromPromptBadBase64(t *testing.T) {
	client := &mockBedrockClient{body: `{"images":["***"]}`}

	_, err := newTestBedrock(client).GenerateFromPrompt(t.Context(), "a cat")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrThrottled))
}

func TestIsThrottling(t *testing.T) {
	assert.False(t, IsThrottling(nil))
	assert.False(t, IsThrottling(errors.New("ValidationException")))
	assert.True(t, IsThrottling(&types.ThrottlingException{}))
	assert.True(t, IsThrottling(fmt.Errorf("wrapped: %w", &types.ThrottlingException{})))
	assert.True(t, IsThrottling(errors.New("ThrottlingException: slow down")))
}
