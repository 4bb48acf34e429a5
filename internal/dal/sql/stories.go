package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

func (r *Repository) InsertStory(ctx context.Context, story *dal.Story) (int64, error) {
	if story.Title == "" {
		return 0, errors.New("title is required")
	}
	if story.CreatedAt.IsZero() {
		return 0, errors.New("created at is required")
	}
	if story.LastAccessedAt.IsZero() {
		story.LastAccessedAt = story.CreatedAt
	}

	var id int64
	err := r.Transact(ctx, func(repo dal.Repository) error {
		tx := repo.(*Repository) //nolint:forcetypeassert // Transact always passes *Repository

		row, err := tx.queryRow(ctx, tx.queries.InsertStoryQuery(story))
		if err != nil {
			return err
		}
		if err = row.Scan(&id); err != nil {
			return fmt.Errorf("insert story: %w", err)
		}

		if len(story.Vocabulary) == 0 {
			return nil
		}
		if _, err = tx.exec(ctx, tx.queries.InsertVocabularyQuery(id, story.Vocabulary)); err != nil {
			return fmt.Errorf("insert vocabulary: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	story.ID = id
	return id, nil
}

func (r *Repository) FindStory(ctx context.Context, id int64) (*dal.Story, error) {
	return r.findStory(ctx, r.queries.FindStoryQuery(id))
}

func (r *Repository) FindStoryByDate(ctx context.Context, day time.Time) (*dal.Story, error) {
	return r.findStory(ctx, r.queries.FindStoryByDateQuery(day))
}

func (r *Repository) FindLatestStory(ctx context.Context) (*dal.Story, error) {
	return r.findStory(ctx, r.queries.FindLatestStoryQuery())
}

func (r *Repository) FindStories(ctx context.Context) ([]dal.StorySummary, error) {
	sqlQuery, args, err := r.queries.FindStoriesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find stories: %w", err)
	}
	defer rows.Close()

	res := make([]dal.StorySummary, 0, 10) //nolint:mnd // expected capacity
	for rows.Next() {
		var s dal.StorySummary
		if err = rows.Scan(&s.ID, &s.Title, &s.DifficultyLevel, &s.Genre, &s.IsAIGenerated, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan story summary: %w", err)
		}
		res = append(res, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stories: %w", err)
	}

	return res, nil
}

func (r *Repository) FindStoriesWithVocabulary(ctx context.Context) ([]dal.Story, error) {
	sqlQuery, args, err := r.queries.FindAllStoriesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find stories: %w", err)
	}
	defer rows.Close()

	stories := make([]dal.Story, 0, 10) //nolint:mnd // expected capacity
	for rows.Next() {
		s, hErr := hydrateStory(rows)
		if hErr != nil {
			return nil, hErr
		}
		stories = append(stories, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stories: %w", err)
	}
	rows.Close()

	vocabulary, err := r.findVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	byStory := make(map[int64][]dal.Vocabulary, len(stories))
	for _, v := range vocabulary {
		byStory[v.StoryID] = append(byStory[v.StoryID], v)
	}
	for i := range stories {
		stories[i].Vocabulary = byStory[stories[i].ID]
	}

	return stories, nil
}

// FindVocabularyDetails lists every vocabulary row with its story title, in insertion order.
func (r *Repository) FindVocabularyDetails(ctx context.Context) ([]dal.VocabularyDetails, error) {
	sqlQuery, args, err := r.queries.FindVocabularyDetailsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find vocabulary details: %w", err)
	}
	defer rows.Close()

	var res []dal.VocabularyDetails
	for rows.Next() {
		var d dal.VocabularyDetails
		if err = scanVocabulary(rows, &d.Vocabulary, &d.StoryTitle); err != nil {
			return nil, fmt.Errorf("scan vocabulary details: %w", err)
		}
		res = append(res, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocabulary details: %w", err)
	}

	return res, nil
}

func (r *Repository) TouchStory(ctx context.Context, id int64, at time.Time) error {
	return r.updateStory(ctx, "touch story", r.queries.TouchStoryQuery(id, at))
}

func (r *Repository) UpdateStoryImage(ctx context.Context, id int64, imageURL string) error {
	return r.updateStory(ctx, "update story image", r.queries.UpdateStoryImageQuery(id, imageURL))
}

func (r *Repository) DeleteStory(ctx context.Context, id int64) error {
	return r.updateStory(ctx, "delete story", r.queries.DeleteStoryQuery(id))
}

func (r *Repository) HasDailyStory(ctx context.Context, day time.Time) (bool, error) {
	cnt, err := r.count(ctx, r.queries.HasDailyStoryQuery(day))
	if err != nil {
		return false, fmt.Errorf("has daily story: %w", err)
	}
	return cnt > 0, nil
}

func (r *Repository) CountStories(ctx context.Context) (int, error) {
	cnt, err := r.count(ctx, r.queries.CountStoriesQuery())
	if err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}
	return cnt, nil
}

func (r *Repository) findStory(ctx context.Context, query squirrel.Sqlizer) (*dal.Story, error) {
	row, err := r.queryRow(ctx, query)
	if err != nil {
		return nil, err
	}

	story, err := hydrateStory(row)
	if err != nil {
		return nil, notFound(err)
	}

	story.Vocabulary, err = r.findVocabulary(ctx, story.ID)
	if err != nil {
		return nil, err
	}

	return story, nil
}

func (r *Repository) findVocabulary(ctx context.Context, storyIDs ...int64) ([]dal.Vocabulary, error) {
	sqlQuery, args, err := r.queries.FindVocabularyQuery(storyIDs...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find vocabulary: %w", err)
	}
	defer rows.Close()

	var res []dal.Vocabulary
	for rows.Next() {
		var v dal.Vocabulary
		if err = scanVocabulary(rows, &v); err != nil {
			return nil, fmt.Errorf("scan vocabulary: %w", err)
		}
		res = append(res, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocabulary: %w", err)
	}

	return res, nil
}

func (r *Repository) updateStory(ctx context.Context, op string, query squirrel.Sqlizer) error {
	res, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return dal.ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func hydrateStory(row scanner) (*dal.Story, error) {
	var s dal.Story
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.TitleTranslation,
		&s.Content,
		&s.Translation,
		&s.DifficultyLevel,
		&s.Genre,
		&s.ImageURL,
		&s.IsAIGenerated,
		&s.CreatedAt,
		&s.LastAccessedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan story: %w", err)
	}
	return &s, nil
}

func scanVocabulary(row scanner, v *dal.Vocabulary, extra ...any) error {
	dest := append([]any{
		&v.ID,
		&v.StoryID,
		&v.Word,
		&v.Translation,
		&v.Definition,
		&v.ExampleSentence,
		&v.ExampleTranslation,
		&v.Category,
		&v.DifficultyLevel,
		&v.PartOfSpeech,
	}, extra...)
	return row.Scan(dest...)
}
