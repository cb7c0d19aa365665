package advisor

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrEmptyReply = errors.New("no choices in LLM response")

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// Annotator asks a chat model for a one-line confidence assessment of a signal message.
type Annotator struct {
	tracer    trace.Tracer
	llm       LLMClient
	model     string
	maxTokens int64
}

func NewAnnotator(tracer trace.Tracer, llm LLMClient, model string) *Annotator {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &Annotator{
		tracer:    tracer,
		llm:       llm,
		model:     model,
		maxTokens: 60,
	}
}

// Annotate returns the model's short assessment of signalText.
func (a *Annotator) Annotate(ctx context.Context, signalText string) (string, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.annotate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", a.model),
		attribute.Int("llm.input_length", len(signalText)),
	)

	completion, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(annotatorPrompt),
			openai.UserMessage(BuildAnnotationRequest(signalText)),
		},
		MaxTokens: openai.Int(a.maxTokens),
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string, opts ...option.RequestOption) LLMClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
