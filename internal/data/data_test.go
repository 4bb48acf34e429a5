package data_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlrepo "github.com/Roma7-7-7/story-learning/internal/dal/sql"
	"github.com/Roma7-7-7/story-learning/internal/data"
	"github.com/Roma7-7-7/story-learning/internal/generate"
)

func TestParse(t *testing.T) {
	in := io.NopCloser(strings.NewReader(`{
		"title": "The Lost City",
		"content": "one\n\ntwo",
		"vocabulary": [{"word": "lost"}, {"word": " "}, {"word": "city"}, {}]
	}`))

	_, err := data.Parse(in)

	var pErr *data.ParsingError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, []int{2, 4}, pErr.InvalidEntries)
}

func TestParse_Valid(t *testing.T) {
	in := io.NopCloser(strings.NewReader(`{"title": "T", "content": "one\r\n\r\ntwo", "vocabulary": [{"word": "lost"}]}`))

	res, err := data.Parse(in)
	require.NoError(t, err)
	assert.Equal(t, "T", res.Title)
	assert.Equal(t, "one\ntwo", res.Content)
	require.Len(t, res.Vocabulary, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{name: "not json", in: "plain text", wantErr: generate.ErrParse.Error()},
		{name: "no title", in: `{"content": "x"}`, wantErr: "story title is required"},
		{name: "no content", in: `{"title": "x"}`, wantErr: "story content is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := data.Parse(io.NopCloser(strings.NewReader(tt.in)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db, err := sqlrepo.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := sqlrepo.NewRepository(db, log)
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	added, err := data.Seed(ctx, repo, now, log)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = data.Seed(ctx, repo, now, log)
	require.NoError(t, err)
	assert.False(t, added)

	story, err := repo.FindLatestStory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Oliver and the Golden Carrot", story.Title)
	assert.Equal(t, "Easy", story.DifficultyLevel)
	assert.Equal(t, "Adventure", story.Genre)
	assert.False(t, story.IsAIGenerated)
	require.Len(t, story.Vocabulary, 14)
	assert.Equal(t, "lush", story.Vocabulary[0].Word)
	assert.Equal(t, "เขียวชอุ่ม", story.Vocabulary[0].Translation)
	assert.Equal(t, "quest", story.Vocabulary[13].Word)
}
