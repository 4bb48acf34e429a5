package data

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Roma7-7-7/story-learning/internal/generate"
)

type ParsingError struct {
	InvalidEntries []int
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing error: invalidVocabularyEntries=%v", e.InvalidEntries)
}

// Parse reads a story written in the generation JSON format.
// Vocabulary entries without a word are reported by their 1-based position.
func Parse(in io.ReadCloser) (*generate.Result, error) {
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}

	res, err := generate.ParseStory(string(raw))
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(res.Title) == "" {
		return nil, errors.New("story title is required")
	}
	if strings.TrimSpace(res.Content) == "" {
		return nil, errors.New("story content is required")
	}

	invalid := make([]int, 0, 10) //nolint:mnd // 10 is the expected capacity
	for i, v := range res.Vocabulary {
		if strings.TrimSpace(v.Word) == "" {
			invalid = append(invalid, i+1)
		}
	}
	if len(invalid) > 0 {
		return nil, &ParsingError{InvalidEntries: invalid}
	}

	return res, nil
}
