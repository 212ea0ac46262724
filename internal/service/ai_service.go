package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/util"
	"arogya_backend/pkg/logger"
	"arogya_backend/pkg/monitoring"
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Turn is one prior message handed to the model.
type Turn struct {
	Role    string
	Content string
}

// LLMClient is the narrow surface the workflow services depend on. Tests
// substitute fakes; production uses AIService.
type LLMClient interface {
	// Chat sends a system prompt plus ordered turns and returns the reply.
	Chat(ctx context.Context, system string, turns []Turn) (string, error)
	// ChatJSON forces a JSON-object response for structured extraction.
	ChatJSON(ctx context.Context, system, user string) (string, error)
}

// AIService wraps the OpenAI-compatible completion API. A custom BaseURL
// lets deployments point at any compatible gateway.
type AIService struct {
	client *openai.Client
	cfg    config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}
}

func (s *AIService) model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return openai.GPT4oMini
}

func (s *AIService) Chat(ctx context.Context, system string, turns []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, t := range turns {
		role := t.Role
		if role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}

	return s.complete(ctx, "chat", openai.ChatCompletionRequest{
		Model:       s.model(),
		Messages:    messages,
		Temperature: 0.3,
	})
}

func (s *AIService) ChatJSON(ctx context.Context, system, user string) (string, error) {
	return s.complete(ctx, "json", openai.ChatCompletionRequest{
		Model: s.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
}

// complete runs one completion with a single retry after a short backoff.
// Retrying more would stack latency onto an interactive turn; callers that
// can degrade gracefully do so on the wrapped ErrUpstreamUnavailable.
func (s *AIService) complete(ctx context.Context, kind string, req openai.ChatCompletionRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		start := time.Now()
		resp, err := s.client.CreateChatCompletion(ctx, req)
		monitoring.LLMCallDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			lastErr = err
			logger.Log.Warn("LLM call failed", zap.String("kind", kind), zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("model returned no choices")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("%w: %v", util.ErrUpstreamUnavailable, lastErr)
}

// Transcribe converts a stored audio file to text, returning the detected
// language as reported by the verbose response.
func (s *AIService) Transcribe(ctx context.Context, audioPath string) (text, language string, err error) {
	model := s.cfg.TranscribeModel
	if model == "" {
		model = openai.Whisper1
	}

	start := time.Now()
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	monitoring.LLMCallDuration.WithLabelValues("transcribe").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", util.ErrUpstreamUnavailable, err)
	}

	language = resp.Language
	if language == "" {
		language = "en"
	}
	return resp.Text, language, nil
}

// Speak renders text to mp3 bytes.
func (s *AIService) Speak(ctx context.Context, text string) ([]byte, error) {
	model := s.cfg.TTSModel
	if model == "" {
		model = string(openai.TTSModel1)
	}
	voice := s.cfg.TTSVoice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}

	start := time.Now()
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	monitoring.LLMCallDuration.WithLabelValues("tts").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstreamUnavailable, err)
	}
	defer resp.Close()

	return io.ReadAll(resp)
}
