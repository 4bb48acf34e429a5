package dal

import "time"

const DateLayout = "2006-01-02"

type (
	Story struct {
		ID               int64
		Title            string
		TitleTranslation string
		Content          string
		Translation      string
		DifficultyLevel  string
		Genre            string
		ImageURL         string
		IsAIGenerated    bool
		CreatedAt        time.Time
		LastAccessedAt   time.Time
		Vocabulary       []Vocabulary
	}

	StorySummary struct {
		ID              int64
		Title           string
		DifficultyLevel string
		Genre           string
		IsAIGenerated   bool
		CreatedAt       time.Time
	}

	Vocabulary struct {
		ID                 int64
		StoryID            int64
		Word               string
		Translation        string
		Definition         string
		ExampleSentence    string
		ExampleTranslation string
		Category           string
		DifficultyLevel    string
		PartOfSpeech       string
	}

	// VocabularyDetails is a vocabulary record with the owning story title.
	VocabularyDetails struct {
		Vocabulary
		StoryTitle string
	}

	KnownWord struct {
		ID        int64
		Word      string
		LearnedAt time.Time
	}

	DailyProgress struct {
		ID           int64
		Date         time.Time
		WordsLearned int
		GoalMet      bool
	}
)

// Day truncates t to the start of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
