package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	values map[string]string
	names  []string
	err    error
}

func (f *fakeSSM) GetParameters(_ context.Context, params *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.names = params.Names
	if f.err != nil {
		return nil, f.err
	}
	out := &ssm.GetParametersOutput{}
	for _, name := range params.Names {
		if v, ok := f.values[name]; ok {
			out.Parameters = append(out.Parameters, types.Parameter{Name: aws.String(name), Value: aws.String(v)})
		}
	}
	return out, nil
}

func TestNewAPI_Defaults(t *testing.T) {
	t.Setenv("API_DEV", "true")

	conf, err := NewAPI(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "story-learning.db", conf.DB.File)
	assert.Equal(t, ":8080", conf.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.HTTP.CORS.AllowOrigins)
	assert.Equal(t, "uploads", conf.HTTP.UploadDir)
	assert.Equal(t, 2*time.Minute, conf.AI.Timeout)
	assert.Equal(t, 5, conf.Learning.DailyGoal)
	assert.True(t, conf.Schedule.Enabled)
	assert.Equal(t, time.Hour, conf.Schedule.Interval)
	assert.False(t, conf.Telegram.Enabled())
	assert.Empty(t, conf.AI.Key)
}

func TestNewAPI_Overrides(t *testing.T) {
	t.Setenv("API_DEV", "true")
	t.Setenv("API_DB_FILE", "/tmp/test.db")
	t.Setenv("API_AI_KEY", "secret")
	t.Setenv("API_LEARNING_DAILY_GOAL", "7")
	t.Setenv("API_SCHEDULE_INTERVAL", "30m")
	t.Setenv("API_HTTP_CORS_ALLOW_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("API_TELEGRAM_TOKEN", "token")
	t.Setenv("API_TELEGRAM_CHAT_ID", "42")

	conf, err := NewAPI(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", conf.DB.File)
	assert.Equal(t, "secret", conf.AI.Key)
	assert.Equal(t, 7, conf.Learning.DailyGoal)
	assert.Equal(t, 30*time.Minute, conf.Schedule.Interval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, conf.HTTP.CORS.AllowOrigins)
	assert.True(t, conf.Telegram.Enabled())
	assert.Equal(t, int64(42), conf.Telegram.ChatID)
}

func TestValidateAPI(t *testing.T) {
	_, err := validateAPI(&API{
		HTTP:     HTTP{RateLimit: -1, ProcessTimeout: time.Second, UploadDir: "uploads"},
		Server:   Server{Addr: ":8080"},
		AI:       AI{Timeout: time.Minute},
		Schedule: Schedule{Enabled: true},
		Telegram: Telegram{Token: "token"},
	})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "db file is required")
	assert.Contains(t, err.Error(), "rate limit -1 must be positive")
	assert.Contains(t, err.Error(), "daily goal 0 must be positive")
	assert.Contains(t, err.Error(), "schedule interval must be positive")
	assert.Contains(t, err.Error(), "telegram token and chat id must be set together")
}

func TestSetAPIProdConfig(t *testing.T) {
	client := &fakeSSM{values: map[string]string{
		paramAIKey:          "ai-secret",
		paramTelegramToken:  "tg-secret",
		paramTelegramChatID: " 42 ",
	}}
	conf := &API{Telegram: Telegram{ChatID: 1}}

	err := setAPIProdConfig(context.Background(), conf, func(context.Context) (ParametersGetter, error) { return client, nil })
	require.NoError(t, err)

	assert.Equal(t, "ai-secret", conf.AI.Key)
	assert.Equal(t, "tg-secret", conf.Telegram.Token)
	assert.Equal(t, int64(42), conf.Telegram.ChatID)
}

func TestSetAPIProdConfig_WithoutTelegram(t *testing.T) {
	client := &fakeSSM{values: map[string]string{paramAIKey: "ai-secret"}}
	conf := &API{}

	err := setAPIProdConfig(context.Background(), conf, func(context.Context) (ParametersGetter, error) { return client, nil })
	require.NoError(t, err)

	assert.Equal(t, []string{paramAIKey}, client.names)
	assert.Equal(t, "ai-secret", conf.AI.Key)
}

func TestFetchAWSParams_Missing(t *testing.T) {
	client := &fakeSSM{values: map[string]string{"a": "1"}}

	params, err := FetchAWSParams(context.Background(), client, "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing parameter values: [b]")
	assert.Equal(t, map[string]string{"a": "1"}, params)
}

func TestFetchAWSParams_Error(t *testing.T) {
	_, err := FetchAWSParams(context.Background(), &fakeSSM{err: assert.AnError}, "a")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestParseChatID(t *testing.T) {
	id, err := parseChatID("-100123")
	require.NoError(t, err)
	assert.Equal(t, int64(-100123), id)

	_, err = parseChatID("abc")
	assert.Error(t, err)
}
