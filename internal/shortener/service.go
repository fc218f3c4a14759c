package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MaxCodeAttempts bounds how many codes Shorten tries when a code is taken.
const MaxCodeAttempts = 3

// Service creates and resolves mappings.
type Service struct {
	store     Repository
	generator CodeGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new shortening service.
func NewService(store Repository, generator CodeGenerator, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Shorten normalizes rawURL and stores it under a freshly generated code.
func (s *Service) Shorten(ctx context.Context, rawURL string) (*Mapping, error) {
	// Whitespace-only input is present; Normalize rejects it as malformed.
	if rawURL == "" {
		return nil, ErrURLRequired
	}

	originalURL, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		mapping := &Mapping{
			Code:        s.generator.Generate(),
			OriginalURL: originalURL,
			CreatedAt:   s.now(),
		}

		if err = mapping.Validate(); err != nil {
			return nil, fmt.Errorf("invalid mapping: %w", err)
		}

		err = s.store.Save(ctx, mapping)
		if err == nil {
			s.logger.Info("url saved",
				zap.String("code", string(mapping.Code)),
				zap.String("originalUrl", mapping.OriginalURL),
			)

			return mapping, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}

		s.logger.Warn("short code collision",
			zap.String("code", string(mapping.Code)),
			zap.Int("attempt", attempt),
		)
	}

	return nil, err
}

// Resolve returns the mapping stored under code.
func (s *Service) Resolve(ctx context.Context, code Code) (*Mapping, error) {
	return s.store.GetByCode(ctx, code)
}
