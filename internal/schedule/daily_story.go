package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/dal"
	"github.com/Roma7-7-7/story-learning/internal/generate"
)

const (
	DailyStoryJob = "daily_story"

	dailyStoryVocabCount = 10
	startDelay           = time.Second
	processTimeout       = 5 * time.Minute
)

//nolint:gochecknoglobals // read-only parameter pools
var (
	dailyTopics = []string{
		"A hidden discovery", "Future technology", "Ancient history", "Nature's wonders", "Space exploration",
		"A valuable life lesson", "Unexpected friendship", "Culinary adventure", "Mystery of the lost city",
	}
	dailyGenres       = []string{"Adventure", "Fantasy", "Sci-Fi", "Mystery", "History", "Comedy", "Drama", "Biography"}
	dailyDifficulties = []string{"A2", "B1", "B2"}
)

type (
	StoryGenerator interface {
		Configured() bool
		Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
	}

	Announcer interface {
		AnnounceStory(ctx context.Context, story *dal.Story) error
	}

	DailyStory struct {
		repo      dal.Repository
		generator StoryGenerator
		announcer Announcer
		interval  time.Duration
		now       func() time.Time
		log       *slog.Logger
	}
)

// NewDailyStory creates the job. announcer may be nil.
func NewDailyStory(repo dal.Repository, generator StoryGenerator, announcer Announcer, interval time.Duration, now func() time.Time, log *slog.Logger) *DailyStory {
	if now == nil {
		now = time.Now
	}
	return &DailyStory{
		repo:      repo,
		generator: generator,
		announcer: announcer,
		interval:  interval,
		now:       now,
		log:       log,
	}
}

// Start runs the job shortly after start and then every interval until ctx is done.
// It returns right away when the generator is not configured.
func (j *DailyStory) Start(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			j.log.ErrorContext(ctx, "panic", "error", r)
		}
	}()

	if !j.generator.Configured() {
		j.log.WarnContext(ctx, "story generation is not configured, daily story schedule is disabled")
		return
	}

	j.log.InfoContext(ctx, "daily story schedule started", "interval", j.interval)
	defer j.log.InfoContext(ctx, "daily story schedule stopped")
	runIn := time.After(startDelay)
	for {
		select {
		case <-ctx.Done():
			return
		case <-runIn:
			runIn = time.After(j.interval)

			rCtx, cancel := context.WithTimeout(ctx, processTimeout)
			if err := j.RunOnce(rCtx); err != nil {
				j.log.ErrorContext(ctx, "failed to create daily story", "error", err)
			}
			cancel()
		}
	}
}

// RunOnce creates today's story unless it exists or another instance already took the day.
func (j *DailyStory) RunOnce(ctx context.Context) error {
	now := j.now().UTC()
	today := dal.Day(now)

	exists, err := j.repo.HasDailyStory(ctx, today)
	if err != nil {
		return fmt.Errorf("check daily story: %w", err)
	}
	if exists {
		j.log.DebugContext(ctx, "daily story already exists", "date", dal.FormatDay(today))
		return nil
	}

	// a claim left by a run that died mid-way expires after the run timeout
	claimed, err := j.repo.ClaimJobRun(ctx, DailyStoryJob, now, processTimeout)
	if err != nil {
		return fmt.Errorf("claim job run: %w", err)
	}
	if !claimed {
		j.log.DebugContext(ctx, "daily story is handled by another run", "date", dal.FormatDay(today))
		return nil
	}

	story, err := j.create(ctx, now)
	if err != nil {
		if rErr := j.repo.ReleaseJobRun(context.WithoutCancel(ctx), DailyStoryJob, today); rErr != nil {
			j.log.ErrorContext(ctx, "failed to release job run", "error", rErr)
		}
		return err
	}
	j.log.InfoContext(ctx, "daily story created", "story_id", story.ID, "title", story.Title)

	if j.announcer != nil {
		if err = j.announcer.AnnounceStory(ctx, story); err != nil {
			j.log.ErrorContext(ctx, "failed to announce daily story", "error", err, "story_id", story.ID)
		}
	}

	return nil
}

func (j *DailyStory) create(ctx context.Context, now time.Time) (*dal.Story, error) {
	req := generate.Request{
		Topic:      generate.Pick(dailyTopics),
		Difficulty: generate.Pick(dailyDifficulties),
		Genre:      generate.Pick(dailyGenres),
		VocabCount: dailyStoryVocabCount,
	}
	j.log.InfoContext(ctx, "generating daily story", "topic", req.Topic, "genre", req.Genre, "difficulty", req.Difficulty)

	res, err := j.generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate story: %w", err)
	}

	story := res.Story(now, false)
	if _, err = j.repo.InsertStory(ctx, story); err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}

	return story, nil
}
