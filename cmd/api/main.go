package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roma7-7-7/story-learning/internal/api"
	"github.com/Roma7-7-7/story-learning/internal/config"
	appctx "github.com/Roma7-7-7/story-learning/internal/context"
	"github.com/Roma7-7-7/story-learning/internal/dal"
	sqlrepo "github.com/Roma7-7-7/story-learning/internal/dal/sql"
	"github.com/Roma7-7-7/story-learning/internal/dashboard"
	"github.com/Roma7-7-7/story-learning/internal/data"
	"github.com/Roma7-7-7/story-learning/internal/generate"
	"github.com/Roma7-7-7/story-learning/internal/schedule"
	"github.com/Roma7-7-7/story-learning/internal/telegram"
	"github.com/Roma7-7-7/story-learning/internal/vocabulary"
)

var (
	// Version is set via -ldflags at build time
	Version = "dev" //nolint:gochecknoglobals // must be global to be replaced at build time
	// BuildTime is set via -ldflags at build time
	BuildTime = "unknown" //nolint:gochecknoglobals // must be global to be replaced at build time
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeDBConnect
	exitCodeServerStart
	exitCodeDependencies
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	conf, err := config.NewAPI(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // app logger is not configured yet
		return exitCodeConfigParse
	}
	log := mustLogger(conf.Dev)
	conf.BuildInfo.Version = Version
	conf.BuildInfo.BuildTime = BuildTime

	db, err := sqlrepo.OpenSQLite(ctx, conf.DB.File)
	if err != nil {
		log.ErrorContext(ctx, "failed to open database", "error", err, "file", conf.DB.File)
		return exitCodeDBConnect
	}
	defer db.Close()
	repo := sqlrepo.NewRepository(db, log)

	if conf.Seed {
		if _, err = data.Seed(ctx, repo, time.Now(), log); err != nil {
			log.ErrorContext(ctx, "failed to seed database", "error", err)
			return exitCodeDBConnect
		}
	}

	model, err := generate.NewModel(conf.AI.Key, conf.AI.BaseURL, conf.AI.Model)
	if err != nil {
		log.ErrorContext(ctx, "failed to create ai model", "error", err)
		return exitCodeDependencies
	}
	generator := generate.NewGenerator(model, conf.AI.Timeout, log)

	if err = startDailyStory(ctx, conf, repo, generator, log); err != nil {
		log.ErrorContext(ctx, "failed to start daily story schedule", "error", err)
		return exitCodeDependencies
	}

	router := api.NewRouter(ctx, conf, dependencies(conf, repo, generator, log))
	log.InfoContext(ctx, "starting api server",
		"version", Version,
		"build_time", BuildTime,
		"address", conf.Server.Addr,
		"db_file", conf.DB.File,
		"ai_configured", conf.AI.Key != "",
		"schedule_enabled", conf.Schedule.Enabled,
	)

	server := &http.Server{
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Addr:              conf.Server.Addr,
		Handler:           router,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), 15*time.Second) //nolint:mnd // ignore mnd
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown api server", "error", sErr)
		}
	}()

	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "failed to start api server", "error", err)
		return exitCodeServerStart
	}

	log.InfoContext(ctx, "api server is stopped")

	return exitCodeOK
}

func dependencies(conf *config.API, repo *sqlrepo.Repository, generator *generate.Generator, log *slog.Logger) api.Dependencies {
	return api.Dependencies{
		Repo:       repo,
		Vocabulary: vocabulary.NewService(repo, conf.Learning.DailyGoal, time.Now, log),
		Dashboard:  dashboard.NewService(repo, time.Now, log),
		Generator:  generator,
		Now:        time.Now,
		Logger:     log,
	}
}

func startDailyStory(ctx context.Context, conf *config.API, repo dal.Repository, generator schedule.StoryGenerator, log *slog.Logger) error {
	if !conf.Schedule.Enabled {
		log.InfoContext(ctx, "daily story schedule is disabled")
		return nil
	}

	var announcer schedule.Announcer
	if conf.Telegram.Enabled() {
		a, err := telegram.NewAnnouncer(conf.Telegram.Token, conf.Telegram.ChatID, "", log)
		if err != nil {
			return err
		}
		announcer = a
	}

	job := schedule.NewDailyStory(repo, generator, announcer, conf.Schedule.Interval, time.Now, log)
	go job.Start(ctx)

	return nil
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(appctx.NewLogHandler(handler))
}
