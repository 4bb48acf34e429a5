package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	paramAIKey          = "/story-learning/prod/ai-key"
	paramTelegramToken  = "/story-learning/prod/telegram-token"
	paramTelegramChatID = "/story-learning/prod/telegram-chat-id"
)

type (
	DB struct {
		File string `envconfig:"FILE" default:"story-learning.db"`
	}

	CORS struct {
		AllowOrigins []string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"10s"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25"`
		UploadDir      string        `envconfig:"UPLOAD_DIR" default:"uploads"`
		CORS           CORS
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":8080"`
	}

	AI struct {
		Key     string        `envconfig:"KEY"`
		BaseURL string        `envconfig:"BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
		Model   string        `envconfig:"MODEL" default:"gemini-2.5-flash"`
		Timeout time.Duration `envconfig:"TIMEOUT" default:"2m"`
	}

	Learning struct {
		DailyGoal int `envconfig:"DAILY_GOAL" default:"5"`
	}

	Schedule struct {
		Enabled  bool          `envconfig:"ENABLED" default:"true"`
		Interval time.Duration `envconfig:"INTERVAL" default:"1h"`
	}

	Telegram struct {
		Token  string `envconfig:"TOKEN"`
		ChatID int64  `envconfig:"CHAT_ID"`
	}

	BuildInfo struct {
		Version   string
		BuildTime string
	}

	API struct {
		Dev       bool `envconfig:"DEV" default:"false"`
		Seed      bool `envconfig:"SEED" default:"false"`
		DB        DB
		HTTP      HTTP
		Server    Server
		AI        AI
		Learning  Learning
		Schedule  Schedule
		Telegram  Telegram
		BuildInfo BuildInfo `ignored:"true"`
	}
)

func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

func NewAPI(ctx context.Context) (*API, error) {
	res := &API{}
	if err := envconfig.Process("API", res); err != nil {
		return nil, fmt.Errorf("parse api environment: %w", err)
	}

	if !res.Dev {
		if err := setAPIProdConfig(ctx, res, newSSMClient); err != nil {
			return nil, fmt.Errorf("set api prod config: %w", err)
		}
	}

	return validateAPI(res)
}

func validateAPI(conf *API) (*API, error) {
	errs := make([]string, 0, 10) //nolint:mnd // 10 is a reasonable default value
	if conf.DB.File == "" {
		errs = append(errs, "db file is required")
	}
	if conf.Server.Addr == "" {
		errs = append(errs, "server address is required")
	}
	if conf.HTTP.RateLimit <= 0 {
		errs = append(errs, fmt.Sprintf("rate limit %v must be positive", conf.HTTP.RateLimit))
	}
	if conf.HTTP.ProcessTimeout <= 0 {
		errs = append(errs, "process timeout must be positive")
	}
	if conf.HTTP.UploadDir == "" {
		errs = append(errs, "upload dir is required")
	}
	if conf.AI.Timeout <= 0 {
		errs = append(errs, "ai timeout must be positive")
	}
	if conf.Learning.DailyGoal <= 0 {
		errs = append(errs, fmt.Sprintf("daily goal %d must be positive", conf.Learning.DailyGoal))
	}
	if conf.Schedule.Enabled && conf.Schedule.Interval <= 0 {
		errs = append(errs, "schedule interval must be positive")
	}
	if (conf.Telegram.Token == "") != (conf.Telegram.ChatID == 0) {
		errs = append(errs, "telegram token and chat id must be set together")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, ", "))
	}

	return conf, nil
}

func setAPIProdConfig(ctx context.Context, target *API, newClient func(ctx context.Context) (ParametersGetter, error)) error {
	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	keys := []string{paramAIKey}
	if target.Telegram.ChatID != 0 || target.Telegram.Token != "" {
		keys = append(keys, paramTelegramToken, paramTelegramChatID)
	}

	parameters, err := FetchAWSParams(ctx, client, keys...)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	for name, value := range parameters {
		switch name {
		case paramAIKey:
			target.AI.Key = value
		case paramTelegramToken:
			target.Telegram.Token = value
		case paramTelegramChatID:
			target.Telegram.ChatID, err = parseChatID(value)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
