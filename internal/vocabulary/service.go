package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

const (
	DefaultDailyGoal = 5
	unknownStory     = "Unknown Story"
)

var ErrEmptyWord = errors.New("word is empty")

type (
	// Definition is a known word joined with the first vocabulary record that teaches it.
	Definition struct {
		ID                 string `json:"id"`
		Word               string `json:"word"`
		Translation        string `json:"translation"`
		Original           string `json:"original"`
		Category           string `json:"category"`
		DifficultyLevel    string `json:"difficultyLevel"`
		PartOfSpeech       string `json:"partOfSpeech"`
		Example            string `json:"example"`
		ExampleTranslation string `json:"exampleTranslation"`
		Definition         string `json:"definition"`
		StoryTitle         string `json:"storyTitle,omitempty"`
	}

	Service struct {
		repo      dal.Repository
		dailyGoal int
		now       func() time.Time
		log       *slog.Logger
	}
)

func NewService(repo dal.Repository, dailyGoal int, now func() time.Time, log *slog.Logger) *Service {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      repo,
		dailyGoal: dailyGoal,
		now:       now,
		log:       log,
	}
}

// Normalize returns the form known words are stored in.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// MarkKnown stores the word as known and counts it towards today's progress.
// Marking an already known word changes nothing.
func (s *Service) MarkKnown(ctx context.Context, word string) error {
	word = Normalize(word)
	if word == "" {
		return ErrEmptyWord
	}

	now := s.now().UTC()
	err := s.repo.Transact(ctx, func(r dal.Repository) error {
		inserted, err := r.InsertKnownWord(ctx, word, now)
		if err != nil {
			return err
		}
		if !inserted {
			s.log.DebugContext(ctx, "word is already known", "word", word)
			return nil
		}
		return r.IncrementDailyProgress(ctx, dal.Day(now), s.dailyGoal)
	})
	if err != nil {
		return fmt.Errorf("mark word %q known: %w", word, err)
	}

	return nil
}

func (s *Service) ListKnown(ctx context.Context) ([]string, error) {
	known, err := s.repo.FindKnownWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("find known words: %w", err)
	}

	res := make([]string, 0, len(known))
	for _, kw := range known {
		res = append(res, kw.Word)
	}
	return res, nil
}

// Reset forgets all known words and daily progress.
func (s *Service) Reset(ctx context.Context) error {
	err := s.repo.Transact(ctx, func(r dal.Repository) error {
		if err := r.DeleteKnownWords(ctx); err != nil {
			return err
		}
		return r.DeleteDailyProgress(ctx)
	})
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}

	s.log.InfoContext(ctx, "progress reset")
	return nil
}

// Details returns the first vocabulary record of every known word, matched by normalized form.
func (s *Service) Details(ctx context.Context) ([]Definition, error) {
	var (
		known   []dal.KnownWord
		details []dal.VocabularyDetails
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if known, err = s.repo.FindKnownWords(egCtx); err != nil {
			return fmt.Errorf("find known words: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if details, err = s.repo.FindVocabularyDetails(egCtx); err != nil {
			return fmt.Errorf("find vocabulary details: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	pending := make(map[string]struct{}, len(known))
	for _, kw := range known {
		pending[Normalize(kw.Word)] = struct{}{}
	}

	res := make([]Definition, 0, len(known))
	for _, d := range details {
		key := Normalize(d.Word)
		if _, ok := pending[key]; !ok {
			continue
		}
		delete(pending, key)

		def := NewDefinition(d.Vocabulary)
		def.StoryTitle = d.StoryTitle
		if def.StoryTitle == "" {
			def.StoryTitle = unknownStory
		}
		res = append(res, def)
	}

	return res, nil
}

func NewDefinition(v dal.Vocabulary) Definition {
	return Definition{
		ID:                 strconv.FormatInt(v.ID, 10),
		Word:               v.Word,
		Translation:        v.Translation,
		Original:           v.Word,
		Category:           v.Category,
		DifficultyLevel:    v.DifficultyLevel,
		PartOfSpeech:       v.PartOfSpeech,
		Example:            v.ExampleSentence,
		ExampleTranslation: v.ExampleTranslation,
		Definition:         v.Definition,
	}
}

// Dedupe keeps the first vocabulary record of every word, comparing words case-insensitively.
func Dedupe(vocabulary []dal.Vocabulary) []Definition {
	res := make([]Definition, 0, len(vocabulary))
	seen := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		key := Normalize(v.Word)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, NewDefinition(v))
	}
	return res
}
