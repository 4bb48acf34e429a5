package dal

import (
	"time"

	"github.com/Masterminds/squirrel"
)

var storyColumns = []string{ //nolint:gochecknoglobals // read-only column list
	"id", "title", "title_translation", "content", "translation", "difficulty_level",
	"genre", "image_url", "is_ai_generated", "created_at", "last_accessed_at",
}

var vocabularyColumns = []string{ //nolint:gochecknoglobals // read-only column list
	"v.id", "v.story_id", "v.word", "v.translation", "v.definition", "v.example_sentence",
	"v.example_translation", "v.category", "v.difficulty_level", "v.part_of_speech",
}

type Queries struct {
	qb squirrel.StatementBuilderType
}

func NewQueries() *Queries {
	return &Queries{qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)}
}

func (q *Queries) Clone() *Queries {
	return &Queries{qb: q.qb}
}

// InsertStoryQuery builds a query to insert a story and return its id
func (q *Queries) InsertStoryQuery(s *Story) squirrel.Sqlizer {
	return q.qb.Insert("stories").
		Columns("title", "title_translation", "content", "translation", "difficulty_level",
			"genre", "image_url", "is_ai_generated", "created_on", "created_at", "last_accessed_at").
		Values(s.Title, s.TitleTranslation, s.Content, s.Translation, s.DifficultyLevel,
			s.Genre, s.ImageURL, s.IsAIGenerated, FormatDay(s.CreatedAt), s.CreatedAt.UTC(), s.LastAccessedAt.UTC()).
		Suffix("RETURNING id")
}

// InsertVocabularyQuery builds a query to insert vocabulary rows owned by a story
func (q *Queries) InsertVocabularyQuery(storyID int64, vocabulary []Vocabulary) squirrel.Sqlizer {
	query := q.qb.Insert("vocabulary").
		Columns("story_id", "word", "translation", "definition", "example_sentence",
			"example_translation", "category", "difficulty_level", "part_of_speech")
	for _, v := range vocabulary {
		query = query.Values(storyID, v.Word, v.Translation, v.Definition, v.ExampleSentence,
			v.ExampleTranslation, v.Category, v.DifficultyLevel, v.PartOfSpeech)
	}
	return query
}

// FindStoryQuery builds a query to find a story by id
func (q *Queries) FindStoryQuery(id int64) squirrel.Sqlizer {
	return q.qb.Select(storyColumns...).
		From("stories").
		Where(squirrel.Eq{"id": id})
}

// FindStoryByDateQuery builds a query to find the first story created on the given day
func (q *Queries) FindStoryByDateQuery(day time.Time) squirrel.Sqlizer {
	return q.qb.Select(storyColumns...).
		From("stories").
		Where(squirrel.Eq{"created_on": FormatDay(day)}).
		OrderBy("id").
		Limit(1)
}

// FindLatestStoryQuery builds a query to find the most recently created story
func (q *Queries) FindLatestStoryQuery() squirrel.Sqlizer {
	return q.qb.Select(storyColumns...).
		From("stories").
		OrderBy("created_at DESC", "id DESC").
		Limit(1)
}

// FindStoriesQuery builds a query to list story summaries, newest first
func (q *Queries) FindStoriesQuery() squirrel.Sqlizer {
	return q.qb.Select("id", "title", "difficulty_level", "genre", "is_ai_generated", "created_at").
		From("stories").
		OrderBy("created_at DESC", "id DESC")
}

// FindAllStoriesQuery builds a query to list full stories
func (q *Queries) FindAllStoriesQuery() squirrel.Sqlizer {
	return q.qb.Select(storyColumns...).
		From("stories").
		OrderBy("id")
}

// FindVocabularyQuery builds a query to list vocabulary, optionally limited to the given stories
func (q *Queries) FindVocabularyQuery(storyIDs ...int64) squirrel.Sqlizer {
	query := q.qb.Select(vocabularyColumns...).
		From("vocabulary v").
		OrderBy("v.story_id", "v.id")
	if len(storyIDs) > 0 {
		query = query.Where(squirrel.Eq{"v.story_id": storyIDs})
	}
	return query
}

// TouchStoryQuery builds a query to update the story last accessed time
func (q *Queries) TouchStoryQuery(id int64, at time.Time) squirrel.Sqlizer {
	return q.qb.Update("stories").
		Set("last_accessed_at", at.UTC()).
		Where(squirrel.Eq{"id": id})
}

// UpdateStoryImageQuery builds a query to update the story image reference
func (q *Queries) UpdateStoryImageQuery(id int64, imageURL string) squirrel.Sqlizer {
	return q.qb.Update("stories").
		Set("image_url", imageURL).
		Where(squirrel.Eq{"id": id})
}

// DeleteStoryQuery builds a query to delete a story, vocabulary is removed by cascade
func (q *Queries) DeleteStoryQuery(id int64) squirrel.Sqlizer {
	return q.qb.Delete("stories").
		Where(squirrel.Eq{"id": id})
}

// HasDailyStoryQuery builds a query to count non AI generated stories created on the given day
func (q *Queries) HasDailyStoryQuery(day time.Time) squirrel.Sqlizer {
	return q.qb.Select("COUNT(*)").
		From("stories").
		Where(squirrel.Eq{"created_on": FormatDay(day), "is_ai_generated": false})
}

// CountStoriesQuery builds a query to count stories
func (q *Queries) CountStoriesQuery() squirrel.Sqlizer {
	return q.qb.Select("COUNT(*)").From("stories")
}

// InsertKnownWordQuery builds a query to add a known word, ignoring already known words
func (q *Queries) InsertKnownWordQuery(word string, learnedAt time.Time) squirrel.Sqlizer {
	return q.qb.Insert("known_words").
		Columns("word", "learned_at").
		Values(word, learnedAt.UTC()).
		Suffix("ON CONFLICT (word) DO NOTHING")
}

// FindKnownWordsQuery builds a query to list known words in learning order
func (q *Queries) FindKnownWordsQuery() squirrel.Sqlizer {
	return q.qb.Select("id", "word", "learned_at").
		From("known_words").
		OrderBy("learned_at", "id")
}

// FindVocabularyDetailsQuery builds a query to list all vocabulary rows with their story title
func (q *Queries) FindVocabularyDetailsQuery() squirrel.Sqlizer {
	return q.qb.Select(append(append([]string{}, vocabularyColumns...), "COALESCE(s.title, '')")...).
		From("vocabulary v").
		LeftJoin("stories s ON s.id = v.story_id").
		OrderBy("v.id")
}

// DeleteKnownWordsQuery builds a query to delete all known words
func (q *Queries) DeleteKnownWordsQuery() squirrel.Sqlizer {
	return q.qb.Delete("known_words")
}

// IncrementDailyProgressQuery builds a query to count one more learned word for the day.
// The goal flag never goes back to false once set.
func (q *Queries) IncrementDailyProgressQuery(day time.Time, dailyGoal int) squirrel.Sqlizer {
	return q.qb.Insert("daily_progress").
		Columns("date", "words_learned", "goal_met").
		Values(FormatDay(day), 1, 1 >= dailyGoal).
		Suffix(`ON CONFLICT (date) DO UPDATE SET
			words_learned = daily_progress.words_learned + 1,
			goal_met = daily_progress.goal_met OR daily_progress.words_learned + 1 >= ?`, dailyGoal)
}

// FindDailyProgressQuery builds a query to find the progress record of the day
func (q *Queries) FindDailyProgressQuery(day time.Time) squirrel.Sqlizer {
	return q.qb.Select("id", "date", "words_learned", "goal_met").
		From("daily_progress").
		Where(squirrel.Eq{"date": FormatDay(day)})
}

// DeleteDailyProgressQuery builds a query to delete all progress records
func (q *Queries) DeleteDailyProgressQuery() squirrel.Sqlizer {
	return q.qb.Delete("daily_progress")
}

// ClaimJobRunQuery builds a query to claim the day of at for the job. A claim for an earlier day
// or a claim made before expiredBefore is taken over.
func (q *Queries) ClaimJobRunQuery(name string, at, expiredBefore time.Time) squirrel.Sqlizer {
	return q.qb.Insert("job_runs").
		Columns("name", "run_date", "claimed_at").
		Values(name, FormatDay(at), at.Unix()).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			run_date = excluded.run_date,
			claimed_at = excluded.claimed_at
			WHERE job_runs.run_date < excluded.run_date
				OR (job_runs.run_date = excluded.run_date AND job_runs.claimed_at < ?)`, expiredBefore.Unix())
}

// ReleaseJobRunQuery builds a query to drop the job run claim for the day
func (q *Queries) ReleaseJobRunQuery(name string, day time.Time) squirrel.Sqlizer {
	return q.qb.Delete("job_runs").
		Where(squirrel.Eq{"name": name, "run_date": FormatDay(day)})
}
