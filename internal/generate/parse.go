package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

var ErrParse = errors.New("parse story")

type (
	Result struct {
		Title            string           `json:"title"`
		TitleTranslation string           `json:"titleTranslation"`
		Content          string           `json:"content"`
		Translation      string           `json:"translation"`
		Vocabulary       []VocabularyItem `json:"vocabulary"`

		// Difficulty and Genre are the values the story was generated with, Random already resolved.
		Difficulty string `json:"-"`
		Genre      string `json:"-"`
	}

	VocabularyItem struct {
		Word               string `json:"word"`
		Translation        string `json:"translation"`
		Definition         string `json:"definition"`
		PartOfSpeech       string `json:"partOfSpeech"`
		Category           string `json:"category"`
		DifficultyLevel    string `json:"difficultyLevel"`
		ExampleSentence    string `json:"exampleSentence"`
		ExampleTranslation string `json:"exampleTranslation"`
	}
)

// ParseStory extracts the first JSON object from text and decodes it.
// The text may wrap the object in prose or code fences.
func ParseStory(text string) (*Result, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("%w: no json object found", ErrParse)
	}

	var res *Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: empty result", ErrParse)
	}

	res.Content = NormalizeContent(res.Content)
	return res, nil
}

// ExtractJSON returns the first balanced {...} object in text, ignoring braces inside string literals.
func ExtractJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// NormalizeContent converts line endings to \n and collapses blank lines between paragraphs.
func NormalizeContent(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	for strings.Contains(content, "\n\n") {
		content = strings.ReplaceAll(content, "\n\n", "\n")
	}
	return content
}

// Story converts the result into a story ready to be stored.
func (r *Result) Story(createdAt time.Time, aiGenerated bool) *dal.Story {
	story := &dal.Story{
		Title:            r.Title,
		TitleTranslation: r.TitleTranslation,
		Content:          r.Content,
		Translation:      r.Translation,
		DifficultyLevel:  r.Difficulty,
		Genre:            r.Genre,
		IsAIGenerated:    aiGenerated,
		CreatedAt:        createdAt,
		LastAccessedAt:   createdAt,
		Vocabulary:       make([]dal.Vocabulary, 0, len(r.Vocabulary)),
	}
	for _, v := range r.Vocabulary {
		story.Vocabulary = append(story.Vocabulary, dal.Vocabulary{
			Word:               v.Word,
			Translation:        v.Translation,
			Definition:         v.Definition,
			ExampleSentence:    v.ExampleSentence,
			ExampleTranslation: v.ExampleTranslation,
			Category:           v.Category,
			DifficultyLevel:    v.DifficultyLevel,
			PartOfSpeech:       v.PartOfSpeech,
		})
	}
	return story
}
