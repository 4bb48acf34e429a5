package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/story-learning/internal/dal"
	"github.com/Roma7-7-7/story-learning/internal/generate"
	"github.com/Roma7-7-7/story-learning/internal/vocabulary"
)

type (
	StoryResponse struct {
		ID               int64                   `json:"id"`
		Title            string                  `json:"title"`
		TitleTranslation string                  `json:"titleTranslation"`
		CreatedDate      time.Time               `json:"createdDate"`
		DifficultyLevel  string                  `json:"difficultyLevel"`
		Genre            string                  `json:"genre"`
		StoryText        string                  `json:"storyText"`
		StoryTranslation string                  `json:"storyTranslation"`
		ImageURL         string                  `json:"imageUrl"`
		IsAIGenerated    bool                    `json:"isAIGenerated"`
		Vocabulary       []vocabulary.Definition `json:"vocabulary"`
	}

	StorySummaryResponse struct {
		ID              int64     `json:"id"`
		Title           string    `json:"title"`
		DifficultyLevel string    `json:"difficultyLevel"`
		CreatedDate     time.Time `json:"createdDate"`
		IsActive        bool      `json:"isActive"`
		Genre           string    `json:"genre"`
		IsAIGenerated   bool      `json:"isAIGenerated"`
		Liked           bool      `json:"liked"`
	}

	GenerateStoryRequest struct {
		Topic      string   `json:"topic"`
		Difficulty string   `json:"difficulty" validate:"difficulty"`
		VocabCount int      `json:"vocabCount" validate:"min=5,max=50"`
		Genre      string   `json:"genre" validate:"genre"`
		KnownWords []string `json:"knownWords"`
	}

	UpdateImageRequest struct {
		ImageURL string `json:"imageUrl"`
	}

	StoriesHandler struct {
		repo      dal.StoriesRepository
		generator StoryGenerator
		now       func() time.Time
		log       *slog.Logger
	}
)

var (
	StoryNotFoundError    = ErrorResponse{"No story found"}                                    //nolint:gochecknoglobals // constant response
	GenerationFailedError = ErrorResponse{"Failed to generate story. Please try again later."} //nolint:gochecknoglobals // constant response
)

func NewStoriesHandler(repo dal.StoriesRepository, generator StoryGenerator, now func() time.Time, log *slog.Logger) *StoriesHandler {
	return &StoriesHandler{
		repo:      repo,
		generator: generator,
		now:       now,
		log:       log,
	}
}

// GetStory looks a story up by id or by creation date. Without either filter the latest story is returned.
func (h *StoriesHandler) GetStory(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		story *dal.Story
		err   error
	)
	switch idParam, dateParam := c.QueryParam("id"), c.QueryParam("date"); {
	case idParam != "":
		id, pErr := strconv.ParseInt(idParam, 10, 64)
		if pErr != nil {
			h.log.DebugContext(ctx, "invalid story id", "id", idParam)
			return c.JSON(http.StatusBadRequest, BadRequestError)
		}
		story, err = h.repo.FindStory(ctx, id)
	case dateParam != "":
		day, pErr := parseDate(dateParam)
		if pErr != nil {
			h.log.DebugContext(ctx, "invalid story date", "date", dateParam)
			return c.JSON(http.StatusBadRequest, BadRequestError)
		}
		story, err = h.repo.FindStoryByDate(ctx, day)
	default:
		story, err = h.repo.FindLatestStory(ctx)
	}
	if errors.Is(err, dal.ErrNotFound) {
		return c.JSON(http.StatusNotFound, StoryNotFoundError)
	}
	if err != nil {
		h.log.ErrorContext(ctx, "failed to find story", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	if err = h.repo.TouchStory(ctx, story.ID, h.now()); err != nil {
		h.log.ErrorContext(ctx, "failed to update story last access", "error", err, "story_id", story.ID)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, StoryResponse{
		ID:               story.ID,
		Title:            story.Title,
		TitleTranslation: story.TitleTranslation,
		CreatedDate:      story.CreatedAt,
		DifficultyLevel:  story.DifficultyLevel,
		Genre:            story.Genre,
		StoryText:        story.Content,
		StoryTranslation: story.Translation,
		ImageURL:         story.ImageURL,
		IsAIGenerated:    story.IsAIGenerated,
		Vocabulary:       vocabulary.Dedupe(story.Vocabulary),
	})
}

func (h *StoriesHandler) ListStories(c echo.Context) error {
	stories, err := h.repo.FindStories(c.Request().Context())
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to find stories", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	res := make([]StorySummaryResponse, len(stories))
	for i, s := range stories {
		res[i] = StorySummaryResponse{
			ID:              s.ID,
			Title:           s.Title,
			DifficultyLevel: s.DifficultyLevel,
			CreatedDate:     s.CreatedAt,
			Genre:           s.Genre,
			IsAIGenerated:   s.IsAIGenerated,
		}
	}

	return c.JSON(http.StatusOK, res)
}

func (h *StoriesHandler) GenerateStory(c echo.Context) error {
	ctx := c.Request().Context()

	var req GenerateStoryRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(ctx, "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if req.Difficulty == "" {
		req.Difficulty = generate.DefaultDifficulty
	}
	if req.Genre == "" {
		req.Genre = generate.DefaultGenre
	}
	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(ctx, "failed to validate request", "error", err)
		return err
	}

	res, err := h.generator.Generate(ctx, generate.Request{
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Genre:      req.Genre,
		VocabCount: req.VocabCount,
		KnownWords: req.KnownWords,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "failed to generate story", "error", err)
		return c.JSON(http.StatusInternalServerError, GenerationFailedError)
	}

	id, err := h.repo.InsertStory(ctx, res.Story(h.now(), true))
	if err != nil {
		h.log.ErrorContext(ctx, "failed to insert generated story", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Story generated successfully", "id": id})
}

func (h *StoriesHandler) UpdateImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	var req UpdateImageRequest
	if err = c.Bind(&req); err != nil {
		h.log.DebugContext(ctx, "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err = h.repo.UpdateStoryImage(ctx, id, req.ImageURL); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusNotFound, StoryNotFoundError)
		}
		h.log.ErrorContext(ctx, "failed to update story image", "error", err, "story_id", id)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Image updated successfully", "imageUrl": req.ImageURL})
}

func (h *StoriesHandler) DeleteStory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err = h.repo.DeleteStory(ctx, id); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusNotFound, StoryNotFoundError)
		}
		h.log.ErrorContext(ctx, "failed to delete story", "error", err, "story_id", id)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Story deleted successfully"})
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dal.DateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
