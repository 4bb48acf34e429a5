package sql_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/story-learning/internal/dal"
	sqlrepo "github.com/Roma7-7-7/story-learning/internal/dal/sql"
)

func newTestRepo(t *testing.T) *sqlrepo.Repository {
	t.Helper()

	db, err := sqlrepo.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlrepo.NewRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testStory(title string, createdAt time.Time, words ...string) *dal.Story {
	s := &dal.Story{
		Title:           title,
		Content:         "Once upon a time",
		DifficultyLevel: "B1",
		Genre:           "Adventure",
		CreatedAt:       createdAt,
	}
	for _, w := range words {
		s.Vocabulary = append(s.Vocabulary, dal.Vocabulary{Word: w, Translation: w + "-tr"})
	}
	return s
}

func TestRepository_InsertAndFindStory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

	id, err := repo.InsertStory(ctx, testStory("Oliver", created, "lush", "curious"))
	require.NoError(t, err)
	assert.Positive(t, id)

	story, err := repo.FindStory(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Oliver", story.Title)
	assert.True(t, story.CreatedAt.Equal(created))
	assert.True(t, story.LastAccessedAt.Equal(created))
	require.Len(t, story.Vocabulary, 2)
	assert.Equal(t, "lush", story.Vocabulary[0].Word)
	assert.Equal(t, id, story.Vocabulary[0].StoryID)

	byDate, err := repo.FindStoryByDate(ctx, created.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, id, byDate.ID)

	_, err = repo.FindStoryByDate(ctx, created.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, dal.ErrNotFound)

	_, err = repo.FindStory(ctx, id+100)
	assert.ErrorIs(t, err, dal.ErrNotFound)
}

func TestRepository_FindLatestStory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.FindLatestStory(ctx)
	require.ErrorIs(t, err, dal.ErrNotFound)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	_, err = repo.InsertStory(ctx, testStory("newest", base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = repo.InsertStory(ctx, testStory("oldest", base))
	require.NoError(t, err)

	latest, err := repo.FindLatestStory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newest", latest.Title)

	summaries, err := repo.FindStories(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "newest", summaries[0].Title)
	assert.Equal(t, "oldest", summaries[1].Title)
}

func TestRepository_DeleteStoryCascadesVocabulary(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	id, err := repo.InsertStory(ctx, testStory("a", now, "one", "two"))
	require.NoError(t, err)
	_, err = repo.InsertStory(ctx, testStory("b", now, "three"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteStory(ctx, id))
	assert.ErrorIs(t, repo.DeleteStory(ctx, id), dal.ErrNotFound)

	stories, err := repo.FindStoriesWithVocabulary(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	require.Len(t, stories[0].Vocabulary, 1)
	assert.Equal(t, "three", stories[0].Vocabulary[0].Word)
}

func TestRepository_TouchAndUpdateImage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	id, err := repo.InsertStory(ctx, testStory("a", now))
	require.NoError(t, err)

	require.NoError(t, repo.TouchStory(ctx, id, now.Add(time.Hour)))
	require.NoError(t, repo.UpdateStoryImage(ctx, id, "/uploads/a.png"))
	assert.ErrorIs(t, repo.UpdateStoryImage(ctx, id+1, "/uploads/b.png"), dal.ErrNotFound)

	story, err := repo.FindStory(ctx, id)
	require.NoError(t, err)
	assert.True(t, story.LastAccessedAt.Equal(now.Add(time.Hour)))
	assert.Equal(t, "/uploads/a.png", story.ImageURL)
}

func TestRepository_HasDailyStory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	ai := testStory("ai", today)
	ai.IsAIGenerated = true
	_, err := repo.InsertStory(ctx, ai)
	require.NoError(t, err)

	has, err := repo.HasDailyStory(ctx, today)
	require.NoError(t, err)
	assert.False(t, has, "ai generated stories are not daily stories")

	_, err = repo.InsertStory(ctx, testStory("daily", today.Add(time.Hour)))
	require.NoError(t, err)

	has, err = repo.HasDailyStory(ctx, today)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasDailyStory(ctx, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRepository_KnownWords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	inserted, err := repo.InsertKnownWord(ctx, "lush", now)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertKnownWord(ctx, "lush", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, inserted)

	words, err := repo.FindKnownWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "lush", words[0].Word)
	assert.True(t, words[0].LearnedAt.Equal(now))

	require.NoError(t, repo.DeleteKnownWords(ctx))
	words, err = repo.FindKnownWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestRepository_FindVocabularyDetails(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	details, err := repo.FindVocabularyDetails(ctx)
	require.NoError(t, err)
	assert.Empty(t, details)

	_, err = repo.InsertStory(ctx, testStory("first", now, "Éclair", "myth"))
	require.NoError(t, err)
	_, err = repo.InsertStory(ctx, testStory("second", now, "lush"))
	require.NoError(t, err)

	details, err = repo.FindVocabularyDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, "Éclair", details[0].Word)
	assert.Equal(t, "first", details[0].StoryTitle)
	assert.Equal(t, "myth", details[1].Word)
	assert.Equal(t, "lush", details[2].Word)
	assert.Equal(t, "second", details[2].StoryTitle)
}

func TestRepository_IncrementDailyProgress(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.FindDailyProgress(ctx, day)
	require.ErrorIs(t, err, dal.ErrNotFound)

	for i := 1; i <= 6; i++ {
		require.NoError(t, repo.IncrementDailyProgress(ctx, day, 5))

		p, err := repo.FindDailyProgress(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, i, p.WordsLearned)
		assert.Equal(t, i >= 5, p.GoalMet, "after %d words", i)
		assert.True(t, p.Date.Equal(day))
	}

	// a higher goal later in the day does not reset the flag
	require.NoError(t, repo.IncrementDailyProgress(ctx, day, 50))
	p, err := repo.FindDailyProgress(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 7, p.WordsLearned)
	assert.True(t, p.GoalMet)

	require.NoError(t, repo.DeleteDailyProgress(ctx))
	_, err = repo.FindDailyProgress(ctx, day)
	assert.ErrorIs(t, err, dal.ErrNotFound)
}

func TestRepository_ClaimJobRun(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	at := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	claimed, err := repo.ClaimJobRun(ctx, "daily_story", at, ttl)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimJobRun(ctx, "daily_story", at.Add(time.Minute), ttl)
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = repo.ClaimJobRun(ctx, "other_job", at, ttl)
	require.NoError(t, err)
	assert.True(t, claimed)

	nextDay := at.AddDate(0, 0, 1)
	claimed, err = repo.ClaimJobRun(ctx, "daily_story", nextDay, ttl)
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, repo.ReleaseJobRun(ctx, "daily_story", nextDay))
	claimed, err = repo.ClaimJobRun(ctx, "daily_story", nextDay, ttl)
	require.NoError(t, err)
	assert.True(t, claimed)

	// an earlier day never takes over a later claim
	claimed, err = repo.ClaimJobRun(ctx, "daily_story", at.Add(time.Hour), ttl)
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = repo.ClaimJobRun(ctx, "daily_story", at, 0)
	assert.Error(t, err)
}

func TestRepository_ClaimJobRun_ExpiredClaim(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	at := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	claimed, err := repo.ClaimJobRun(ctx, "daily_story", at, ttl)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = repo.ClaimJobRun(ctx, "daily_story", at.Add(ttl), ttl)
	require.NoError(t, err)
	assert.False(t, claimed, "claim is still live at exactly ttl")

	claimed, err = repo.ClaimJobRun(ctx, "daily_story", at.Add(ttl+time.Second), ttl)
	require.NoError(t, err)
	assert.True(t, claimed)

	// the takeover refreshes the claim
	claimed, err = repo.ClaimJobRun(ctx, "daily_story", at.Add(ttl+time.Minute), ttl)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestRepository_TransactRollback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	err := repo.Transact(ctx, func(r dal.Repository) error {
		if _, err := r.InsertKnownWord(ctx, "lush", now); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	words, err := repo.FindKnownWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)
}
