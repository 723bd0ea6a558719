package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursehub-api/internal/models"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
	"github.com/noah-isme/coursehub-api/pkg/llm"
	"github.com/noah-isme/coursehub-api/pkg/logger"
)

const chatPromptTemplate = "using the context: %s\n" +
	"answer the next question: %s in maximum 150 words. \n" +
	"If the answer is not related to the context, \n" +
	"give the following answer: \"The question is not related to the course\". \n" +
	"Provide your answer using the language used in the question."

// BuildChatPrompt embeds the course context and question in the fixed instruction template.
func BuildChatPrompt(courseContext, question string) string {
	return fmt.Sprintf(chatPromptTemplate, courseContext, question)
}

type courseContextReader interface {
	GetContext(ctx context.Context, id string) (string, error)
}

// AnswerRenderer post-processes a successful completion.
type AnswerRenderer interface {
	Render(src string) string
}

// ChatConfig tunes the relay.
type ChatConfig struct {
	Timeout   time.Duration
	MaxTokens int
}

// ChatService relays course questions to the completion provider.
type ChatService struct {
	courses   courseContextReader
	provider  llm.Provider
	renderer  AnswerRenderer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ChatConfig
}

// NewChatService constructs a ChatService. renderer may be nil to return raw answers.
func NewChatService(courses courseContextReader, provider llm.Provider, renderer AnswerRenderer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ChatConfig) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if provider == nil {
		provider = llm.Unavailable{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	return &ChatService{courses: courses, provider: provider, renderer: renderer, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// Ask answers a question about a course. Provider failures never surface as
// errors; the answer becomes "No response" instead.
func (s *ChatService) Ask(ctx context.Context, courseID string, req models.AskQuestionRequest) (*models.ChatAnswer, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordChat(ChatOutcomeRejected)
		return nil, appErrors.FromValidator(err, "invalid question payload")
	}
	if WordCount(req.Content) > models.QuestionMaxWords {
		s.metrics.RecordChat(ChatOutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrInvalidQuestion, "")
	}

	courseContext, err := s.courses.GetContext(ctx, courseID)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.logger).With(zap.String("course_id", courseID), zap.String("provider", s.provider.Name()))

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.provider.Complete(callCtx, llm.CompletionRequest{
		Prompt:      BuildChatPrompt(courseContext, req.Content),
		Temperature: 0,
		MaxTokens:   s.cfg.MaxTokens,
		N:           1,
	})
	s.metrics.ObserveProvider(s.provider.Name(), time.Since(start))
	if err != nil {
		var perr *llm.ProviderError
		if !errors.As(err, &perr) {
			perr = &llm.ProviderError{Provider: s.provider.Name(), Reason: llm.ReasonTransport, Err: err}
		}
		log.Warn("completion provider failed", zap.String("reason", perr.Reason), zap.Error(perr))
		s.metrics.RecordChat(ChatOutcomeFallback)
		return &models.ChatAnswer{Answer: models.NoResponseAnswer}, nil
	}

	if strings.TrimSpace(answer) == "" {
		log.Warn("completion provider returned an empty answer")
		s.metrics.RecordChat(ChatOutcomeFallback)
		return &models.ChatAnswer{Answer: models.NoResponseAnswer}, nil
	}

	s.metrics.RecordChat(ChatOutcomeSuccess)
	if s.renderer != nil {
		answer = s.renderer.Render(answer)
	}
	return &models.ChatAnswer{Answer: answer}, nil
}
