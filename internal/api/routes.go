package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Roma7-7-7/story-learning/internal/config"
	"github.com/Roma7-7-7/story-learning/internal/dal"
	"github.com/Roma7-7-7/story-learning/internal/dashboard"
	"github.com/Roma7-7-7/story-learning/internal/generate"
	"github.com/Roma7-7-7/story-learning/internal/vocabulary"
)

const generatePath = "/api/story/generate"

type (
	VocabularyService interface {
		MarkKnown(ctx context.Context, word string) error
		ListKnown(ctx context.Context) ([]string, error)
		Details(ctx context.Context) ([]vocabulary.Definition, error)
		Reset(ctx context.Context) error
	}

	DashboardService interface {
		Stats(ctx context.Context) (dashboard.Stats, error)
	}

	StoryGenerator interface {
		Generate(ctx context.Context, req generate.Request) (*generate.Result, error)
	}

	Dependencies struct {
		Repo       dal.Repository
		Vocabulary VocabularyService
		Dashboard  DashboardService
		Generator  StoryGenerator
		Now        func() time.Time
		Logger     *slog.Logger
	}
)

func NewRouter(ctx context.Context, conf *config.API, deps Dependencies) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.RequestID())
	e.Use(RequestIDMiddleware())
	e.Use(loggingMiddleware(ctx, deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.HTTP.CORS.AllowOrigins,
	}))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		// generation is bounded by its own timeout
		Skipper: func(c echo.Context) bool {
			return c.Path() == generatePath
		},
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)

	health := NewHealthHandler(deps.Repo, deps.Now, deps.Logger)
	stories := NewStoriesHandler(deps.Repo, deps.Generator, deps.Now, deps.Logger)
	words := NewVocabularyHandler(deps.Vocabulary, deps.Logger)
	stats := NewDashboardHandler(deps.Dashboard, deps.Logger)
	uploads := NewUploadHandler(conf.HTTP.UploadDir, deps.Logger)

	g := e.Group("/api")
	g.GET("/health", health.Health)

	g.GET("/story", stories.GetStory)
	g.GET("/stories", stories.ListStories)
	g.POST("/story/generate", stories.GenerateStory)
	g.PUT("/story/:id/image", stories.UpdateImage)
	g.DELETE("/story/:id", stories.DeleteStory)

	g.GET("/vocabulary/known", words.Known)
	g.POST("/vocabulary/mark", words.Mark)
	g.GET("/vocabulary/my-list-details", words.MyListDetails)
	g.POST("/reset", words.Reset)

	g.GET("/dashboard", stats.Dashboard)

	g.POST("/upload", uploads.Upload)
	e.Static("/uploads", conf.HTTP.UploadDir)

	return e
}

func loggingMiddleware(ctx context.Context, log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
