package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

type Service struct {
	repo dal.Repository
	now  func() time.Time
	log  *slog.Logger
}

func NewService(repo dal.Repository, now func() time.Time, log *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now, log: log}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		knownWords []dal.KnownWord
		stories    []dal.Story
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if knownWords, err = s.repo.FindKnownWords(gCtx); err != nil {
			return fmt.Errorf("find known words: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stories, err = s.repo.FindStoriesWithVocabulary(gCtx); err != nil {
			return fmt.Errorf("find stories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats := Build(s.now(), knownWords, stories)
	s.log.DebugContext(ctx, "dashboard stats built",
		"known_words", len(knownWords),
		"stories", len(stories),
		"streak", stats.CurrentStreak,
	)
	return stats, nil
}
