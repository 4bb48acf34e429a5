package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

func (r *Repository) InsertKnownWord(ctx context.Context, word string, learnedAt time.Time) (bool, error) {
	if word == "" {
		return false, errors.New("word is required")
	}

	res, err := r.exec(ctx, r.queries.InsertKnownWordQuery(word, learnedAt))
	if err != nil {
		return false, fmt.Errorf("insert known word: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *Repository) FindKnownWords(ctx context.Context) ([]dal.KnownWord, error) {
	sqlQuery, args, err := r.queries.FindKnownWordsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find known words: %w", err)
	}
	defer rows.Close()

	res := make([]dal.KnownWord, 0, 100) //nolint:mnd // expected capacity
	for rows.Next() {
		var kw dal.KnownWord
		if err = rows.Scan(&kw.ID, &kw.Word, &kw.LearnedAt); err != nil {
			return nil, fmt.Errorf("scan known word: %w", err)
		}
		res = append(res, kw)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate known words: %w", err)
	}

	return res, nil
}

func (r *Repository) DeleteKnownWords(ctx context.Context) error {
	if _, err := r.exec(ctx, r.queries.DeleteKnownWordsQuery()); err != nil {
		return fmt.Errorf("delete known words: %w", err)
	}
	return nil
}
