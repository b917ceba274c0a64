package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"smartdash/internal/repository"
	"smartdash/internal/resumeparser"
)

type SettingsUsecase interface {
	ParserPreference() resumeparser.Kind
	SetParserPreference(ctx context.Context, raw string) (resumeparser.Kind, error)
}

// Settings holds the parser preference for the process. It is loaded once
// at start and then only changed through SetParserPreference.
type Settings struct {
	repo   repository.SettingsRepository
	logger *log.Logger

	mu     sync.RWMutex
	parser resumeparser.Kind
}

// NewSettingsUsecase resolves the preference from the store, then fallback,
// then the built-in default. A store error or an unknown stored value is
// logged and does not fail startup.
func NewSettingsUsecase(ctx context.Context, repo repository.SettingsRepository, fallback string, logger *log.Logger) *Settings {
	s := &Settings{repo: repo, logger: logger, parser: resumeparser.DefaultKind}

	if k, err := resumeparser.ParseKind(fallback); err == nil {
		s.parser = k
	} else if fallback != "" {
		s.logf("[Settings] ignoring PARSER_PREFERENCE: %v", err)
	}

	stored, ok, err := repo.GetParserPreference(ctx)
	switch {
	case err != nil:
		s.logf("[Settings] could not read stored parser preference, using %s: %v", s.parser, err)
	case ok:
		k, perr := resumeparser.ParseKind(stored)
		if perr != nil {
			s.logf("[Settings] ignoring stored parser preference: %v", perr)
			break
		}
		s.parser = k
	}
	s.logf("[Settings] parser preference=%s", s.parser)
	return s
}

func (s *Settings) ParserPreference() resumeparser.Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parser
}

// SetParserPreference persists first so the in-process value never gets
// ahead of the store.
func (s *Settings) SetParserPreference(ctx context.Context, raw string) (resumeparser.Kind, error) {
	k, err := resumeparser.ParseKind(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidParser, err)
	}
	if err := s.repo.SetParserPreference(ctx, string(k)); err != nil {
		s.logf("[Settings] store error while updating settings: %v", err)
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	s.parser = k
	s.mu.Unlock()
	s.logf("[Settings] updated parser preference to: %s", k)
	return k, nil
}

func (s *Settings) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

var _ SettingsUsecase = (*Settings)(nil)
