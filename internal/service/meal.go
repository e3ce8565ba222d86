package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageza/menubebe/backend/config"
	"github.com/pageza/menubebe/backend/internal/logging"
	"github.com/pageza/menubebe/backend/internal/prompt"
)

// MealService turns nursery menu text into meal plan suggestions
type MealService struct {
	keys      config.APIKeyProvider
	generator Generator
	prompt    *prompt.Template
	opts      GenerationOptions
	logger    *logrus.Logger
}

// NewMealService creates a new MealService instance
func NewMealService(keys config.APIKeyProvider, generator Generator, tmpl *prompt.Template, opts GenerationOptions, logger *logrus.Logger) *MealService {
	if tmpl == nil {
		tmpl = prompt.Default()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &MealService{
		keys:      keys,
		generator: generator,
		prompt:    tmpl,
		opts:      opts,
		logger:    logger,
	}
}

// Suggest checks the credential, then the menu text, then makes exactly one
// generation call. Errors are always *Error.
func (s *MealService) Suggest(ctx context.Context, menuText string) (string, error) {
	log := logging.FromContext(ctx, s.logger)

	apiKey := strings.TrimSpace(s.keys.APIKey())
	if apiKey == "" {
		log.Error("Gemini API key is not configured")
		suggestionsTotal.WithLabelValues(KindConfiguration.String()).Inc()
		return "", ErrAPIKeyNotConfigured
	}

	if strings.TrimSpace(menuText) == "" {
		suggestionsTotal.WithLabelValues(KindValidation.String()).Inc()
		return "", ErrNoMenuText
	}

	rendered, err := s.prompt.Render(menuText)
	if err != nil {
		log.WithError(err).Error("Failed to build meal plan prompt")
		suggestionsTotal.WithLabelValues(KindUpstream.String()).Inc()
		return "", NewUpstreamError(err)
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, apiKey, rendered, s.opts)
	elapsed := time.Since(start)
	upstreamDuration.Observe(elapsed.Seconds())

	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"model":    s.opts.Model,
			"duration": elapsed.String(),
		}).Error("Error calling Gemini API")
		suggestionsTotal.WithLabelValues(KindUpstream.String()).Inc()
		return "", NewUpstreamError(err)
	}

	log.WithFields(logrus.Fields{
		"model":      s.opts.Model,
		"duration":   elapsed.String(),
		"menu_chars": len(menuText),
		"text_chars": len(text),
	}).Info("Meal suggestions generated")
	suggestionsTotal.WithLabelValues(outcomeSuccess).Inc()

	return text, nil
}
