package data

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

const (
	seedDifficulty = "Easy"
	seedGenre      = "Adventure"
)

//go:embed seed_story.json
var seedStory []byte

// Seed stores the sample story when the store has no stories yet. It reports whether the story was added.
func Seed(ctx context.Context, repo dal.Repository, now time.Time, log *slog.Logger) (bool, error) {
	cnt, err := repo.CountStories(ctx)
	if err != nil {
		return false, fmt.Errorf("count stories: %w", err)
	}
	if cnt > 0 {
		log.DebugContext(ctx, "store is not empty, skipping seed", "stories", cnt)
		return false, nil
	}

	res, err := Parse(io.NopCloser(bytes.NewReader(seedStory)))
	if err != nil {
		return false, fmt.Errorf("parse seed story: %w", err)
	}
	res.Difficulty = seedDifficulty
	res.Genre = seedGenre

	id, err := repo.InsertStory(ctx, res.Story(now, false))
	if err != nil {
		return false, fmt.Errorf("insert seed story: %w", err)
	}

	log.InfoContext(ctx, "seed story added", "story_id", id, "title", res.Title)
	return true, nil
}
