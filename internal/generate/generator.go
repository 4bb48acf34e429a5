package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultTimeout = 2 * time.Minute
)

var ErrNotConfigured = errors.New("story generation is not configured")

type (
	Request struct {
		Topic      string
		Difficulty string
		Genre      string
		VocabCount int
		KnownWords []string
	}

	Generator struct {
		model   llms.Model
		timeout time.Duration
		log     *slog.Logger
	}
)

// NewModel creates a client for an OpenAI compatible endpoint. An empty key yields a nil model.
func NewModel(key, baseURL, model string) (llms.Model, error) {
	if key == "" {
		return nil, nil //nolint:nilnil // generation stays disabled without a key
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	llm, err := openai.New(
		openai.WithToken(key),
		openai.WithModel(model),
		openai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return llm, nil
}

// NewGenerator creates a generator. A nil model makes every Generate call fail with ErrNotConfigured.
func NewGenerator(model llms.Model, timeout time.Duration, log *slog.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{model: model, timeout: timeout, log: log}
}

func (g *Generator) Configured() bool {
	return g.model != nil
}

func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if g.model == nil {
		return nil, ErrNotConfigured
	}

	req = withDefaults(req)
	g.log.InfoContext(ctx, "generating story",
		"topic", req.Topic,
		"difficulty", req.Difficulty,
		"genre", req.Genre,
		"vocab_count", req.VocabCount,
		"known_words", len(req.KnownWords),
	)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, BuildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParse)
	}
	g.log.DebugContext(ctx, "got model response", "length", len(text))

	res, err := ParseStory(text)
	if err != nil {
		return nil, err
	}
	res.Difficulty = req.Difficulty
	res.Genre = req.Genre

	g.log.InfoContext(ctx, "story generated", "title", res.Title, "vocabulary", len(res.Vocabulary))
	return res, nil
}

func withDefaults(req Request) Request {
	if req.Topic == "" {
		req.Topic = DefaultTopic
	}
	if req.Difficulty == "" {
		req.Difficulty = DefaultDifficulty
	}
	if req.Genre == "" {
		req.Genre = DefaultGenre
	}
	req.Difficulty = resolve(req.Difficulty, Difficulties)
	req.Genre = resolve(req.Genre, Genres)
	return req
}
