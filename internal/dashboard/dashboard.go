package dashboard

import (
	"strings"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

const (
	// GoalTarget is the overall number of words a learner aims for.
	GoalTarget = 3000
	// StreakThreshold is the number of words a day needs to count towards the streak.
	StreakThreshold = 5
	// MinDailyTarget is the lowest per-day target shown in the calendar.
	MinDailyTarget = 5
)

type (
	Stats struct {
		CurrentStreak     int          `json:"currentStreak"`
		TotalWordsLearned int          `json:"totalWordsLearned"`
		GoalTarget        int          `json:"goalTarget"`
		Calendar          []DayStatus  `json:"calendar"`
		LastPlayedStory   *RecentStory `json:"lastPlayedStory"`
	}

	DayStatus struct {
		Date                string `json:"date"`
		IsCompleted         bool   `json:"isCompleted"`
		WordsLearned        int    `json:"wordsLearned"`
		TotalWordsAvailable int    `json:"totalWordsAvailable"`
		HasStory            bool   `json:"hasStory"`
	}

	RecentStory struct {
		ID              int64  `json:"id"`
		Title           string `json:"title"`
		ProgressPercent int    `json:"progressPercent"`
		Difficulty      string `json:"difficulty"`
	}
)

// Build computes dashboard stats as of now from all known words and all stories with their vocabulary.
func Build(now time.Time, knownWords []dal.KnownWord, stories []dal.Story) Stats {
	learned := make(map[string]int, len(knownWords))
	for _, kw := range knownWords {
		learned[dal.FormatDay(kw.LearnedAt)]++
	}

	storyVocab := make(map[string]int, len(stories))
	for _, s := range stories {
		storyVocab[dal.FormatDay(s.CreatedAt)] += len(s.Vocabulary)
	}

	return Stats{
		CurrentStreak:     streak(dal.Day(now), learned),
		TotalWordsLearned: len(knownWords),
		GoalTarget:        GoalTarget,
		Calendar:          calendar(dal.Day(now), learned, storyVocab),
		LastPlayedStory:   recentStory(knownWords, stories),
	}
}

// dayTarget is the number of words a day with learning activity needs to be complete.
func dayTarget(storyVocab, learned int) int {
	target := storyVocab
	if target < MinDailyTarget {
		target = MinDailyTarget
	}
	if target < learned {
		target = learned
	}
	return target
}

func calendar(today time.Time, learned, storyVocab map[string]int) []DayStatus {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	res := make([]DayStatus, 0, 31) //nolint:mnd // max days in month
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		key := dal.FormatDay(d)
		_, hasStory := storyVocab[key]
		status := DayStatus{
			Date:                key,
			TotalWordsAvailable: MinDailyTarget,
			HasStory:            hasStory,
		}
		if count, ok := learned[key]; ok {
			status.WordsLearned = count
			status.TotalWordsAvailable = dayTarget(storyVocab[key], count)
			status.IsCompleted = count >= status.TotalWordsAvailable
		}
		res = append(res, status)
	}
	return res
}

// streak counts consecutive qualifying days ending today, or yesterday when today does not qualify yet.
func streak(today time.Time, learned map[string]int) int {
	qualifies := func(d time.Time) bool {
		return learned[dal.FormatDay(d)] >= StreakThreshold
	}

	day := today
	if !qualifies(day) {
		day = day.AddDate(0, 0, -1)
		if !qualifies(day) {
			return 0
		}
	}

	res := 0
	for qualifies(day) {
		res++
		day = day.AddDate(0, 0, -1)
	}
	return res
}

func recentStory(knownWords []dal.KnownWord, stories []dal.Story) *RecentStory {
	if len(stories) == 0 {
		return nil
	}

	latest := &stories[0]
	for i := range stories[1:] {
		if stories[i+1].LastAccessedAt.After(latest.LastAccessedAt) {
			latest = &stories[i+1]
		}
	}

	known := make(map[string]struct{}, len(knownWords))
	for _, kw := range knownWords {
		known[strings.ToLower(kw.Word)] = struct{}{}
	}

	progress := 0
	if total := len(latest.Vocabulary); total > 0 {
		knownCount := 0
		for _, v := range latest.Vocabulary {
			if _, ok := known[strings.ToLower(v.Word)]; ok {
				knownCount++
			}
		}
		progress = knownCount * 100 / total //nolint:mnd // percent
	}

	return &RecentStory{
		ID:              latest.ID,
		Title:           latest.Title,
		ProgressPercent: progress,
		Difficulty:      latest.DifficultyLevel,
	}
}
