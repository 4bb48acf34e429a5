package dal

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type (
	StoriesRepository interface {
		InsertStory(ctx context.Context, story *Story) (int64, error)
		FindStory(ctx context.Context, id int64) (*Story, error)
		FindStoryByDate(ctx context.Context, day time.Time) (*Story, error)
		FindLatestStory(ctx context.Context) (*Story, error)
		FindStories(ctx context.Context) ([]StorySummary, error)
		FindStoriesWithVocabulary(ctx context.Context) ([]Story, error)
		FindVocabularyDetails(ctx context.Context) ([]VocabularyDetails, error)
		TouchStory(ctx context.Context, id int64, at time.Time) error
		UpdateStoryImage(ctx context.Context, id int64, imageURL string) error
		DeleteStory(ctx context.Context, id int64) error
		HasDailyStory(ctx context.Context, day time.Time) (bool, error)
		CountStories(ctx context.Context) (int, error)
	}

	KnownWordsRepository interface {
		// InsertKnownWord returns false when the word is already known.
		InsertKnownWord(ctx context.Context, word string, learnedAt time.Time) (bool, error)
		FindKnownWords(ctx context.Context) ([]KnownWord, error)
		DeleteKnownWords(ctx context.Context) error
	}

	DailyProgressRepository interface {
		IncrementDailyProgress(ctx context.Context, day time.Time, dailyGoal int) error
		FindDailyProgress(ctx context.Context, day time.Time) (*DailyProgress, error)
		DeleteDailyProgress(ctx context.Context) error
	}

	JobRunsRepository interface {
		// ClaimJobRun claims the UTC day of at for the job. It returns false when the day is already
		// claimed and the claim is younger than ttl.
		ClaimJobRun(ctx context.Context, name string, at time.Time, ttl time.Duration) (bool, error)
		ReleaseJobRun(ctx context.Context, name string, day time.Time) error
	}

	Repository interface {
		Transact(ctx context.Context, txFunc func(r Repository) error) error
		Ping(ctx context.Context) error
		StoriesRepository
		KnownWordsRepository
		DailyProgressRepository
		JobRunsRepository
	}
)
