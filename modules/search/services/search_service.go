package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/serrors"
	"github.com/iota-uz/dora-register/pkg/spotlight"
)

const (
	MinQueryLength = 2
	MaxHits        = 20
)

var ErrQueryTooShort = serrors.NewError("INVALID_SEARCH_QUERY", "the search query must have at least 2 characters", "Search.Errors.QueryTooShort")

type SearchService struct {
	providers []spotlight.Provider
	logger    logrus.FieldLogger
}

func NewSearchService(logger logrus.FieldLogger, providers ...spotlight.Provider) *SearchService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SearchService{providers: providers, logger: logger}
}

// Search ranks every record the caller may list. Record types the caller
// is not allowed to list are skipped rather than failing the search.
func (s *SearchService) Search(ctx context.Context, q string) ([]spotlight.Hit, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	var docs []spotlight.Document
	for _, p := range s.providers {
		found, err := p.Documents(ctx)
		if errors.Is(err, authz.ErrForbidden) {
			continue
		}
		if err != nil {
			s.logger.WithError(err).WithField("type", p.Type()).Warn("search: provider failed")
			return nil, err
		}
		docs = append(docs, found...)
	}
	return spotlight.Rank(q, docs, MaxHits), nil
}
