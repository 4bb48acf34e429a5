package generate

import (
	"fmt"
	"strings"
)

type level struct {
	minWords, maxWords int
	style              string
}

var (
	levels = map[string]level{ //nolint:gochecknoglobals // read-only
		"A1": {50, 100, "Use very simple sentences. Focus on daily routines. No complex grammar."},
		"A2": {100, 200, "Use simple storyline with basic dialogue. Short paragraphs."},
		"B1": {200, 350, "Create a clear plot with emotions. Use moderate vocabulary."},
		"B2": {350, 500, "Use complex content with idioms and technical terms allowed."},
		"C1": {500, 800, "Use sophisticated language with nuanced expressions."},
		"C2": {500, 800, "Use sophisticated language with nuanced expressions."},
	}
	defaultLevel = levels[DefaultDifficulty] //nolint:gochecknoglobals // read-only
)

func levelFor(difficulty string) level {
	if l, ok := levels[strings.ToUpper(difficulty)]; ok {
		return l
	}
	return defaultLevel
}

const promptTemplate = `You are a creative English learning content generator for Thai learners.

TASK: Create a short story for language learners.

REQUIREMENTS:
- Topic: %[1]s
- Genre: %[2]s
- CEFR Level: %[3]s
- Story length: %[4]d-%[5]d words
- Style: %[6]s
- Vocabulary count: %[7]d words
%[8]s
OUTPUT FORMAT (JSON only, no markdown):
{
  "title": "Story title",
  "titleTranslation": "Thai translation of the title",
  "content": "Full story text with \n for paragraphs",
  "translation": "Thai translation of the story",
  "vocabulary": [
    {
      "word": "exact word as it appears in story",
      "translation": "Thai translation",
      "definition": "English definition",
      "partOfSpeech": "noun/verb/adjective/adverb",
      "category": "Theme category",
      "difficultyLevel": "CEFR Level (A1-C2)",
      "exampleSentence": "Sentence from the story containing this word",
      "exampleTranslation": "Thai translation of example"
    }
  ]
}

CRITICAL RULES:
1. Output ONLY valid JSON - no markdown, no code blocks, no extra text
2. Vocabulary array must have exactly %[7]d items
3. Each vocabulary word MUST appear EXACTLY as written in the story content
4. Use the EXACT form of the word (e.g., if story has "running", vocabulary should have "running" not "run")
5. Example sentences should be actual sentences from the story
6. Story must be %[4]d-%[5]d words long
7. ALL vocabulary words MUST be from the Oxford 3000 word list (most important English words for learners)`

// BuildPrompt renders the model prompt. Only the first MaxKnownWords known words are excluded.
func BuildPrompt(req Request) string {
	l := levelFor(req.Difficulty)

	var exclude string
	if len(req.KnownWords) > 0 {
		words := req.KnownWords
		if len(words) > MaxKnownWords {
			words = words[:MaxKnownWords]
		}
		exclude = "\nEXCLUDE THESE WORDS (user already knows them):\n" +
			strings.Join(words, ", ") +
			"\nDo NOT include any of these words in the vocabulary list.\n"
	}

	return fmt.Sprintf(promptTemplate,
		req.Topic, req.Genre, req.Difficulty, l.minWords, l.maxWords, l.style, req.VocabCount, exclude)
}
