package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

func (r *Repository) IncrementDailyProgress(ctx context.Context, day time.Time, dailyGoal int) error {
	if dailyGoal <= 0 {
		return errors.New("daily goal must be positive")
	}

	if _, err := r.exec(ctx, r.queries.IncrementDailyProgressQuery(day, dailyGoal)); err != nil {
		return fmt.Errorf("increment daily progress: %w", err)
	}
	return nil
}

func (r *Repository) FindDailyProgress(ctx context.Context, day time.Time) (*dal.DailyProgress, error) {
	row, err := r.queryRow(ctx, r.queries.FindDailyProgressQuery(day))
	if err != nil {
		return nil, err
	}

	var (
		p       dal.DailyProgress
		dateStr string
	)
	if err = row.Scan(&p.ID, &dateStr, &p.WordsLearned, &p.GoalMet); err != nil {
		if err = notFound(err); errors.Is(err, dal.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find daily progress: %w", err)
	}

	p.Date, err = time.Parse(dal.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	return &p, nil
}

func (r *Repository) DeleteDailyProgress(ctx context.Context) error {
	if _, err := r.exec(ctx, r.queries.DeleteDailyProgressQuery()); err != nil {
		return fmt.Errorf("delete daily progress: %w", err)
	}
	return nil
}
