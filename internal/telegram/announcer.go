package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	tb "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

var newStoryTemplate = template.Must(template.New("new_story").
	Parse(`New daily story: {{.Title}} ({{.DifficultyLevel}}, {{.Genre}})`))

type Announcer struct {
	bot    *tb.Bot
	chatID tb.ChatID
	log    *slog.Logger
}

// NewAnnouncer creates an announcer posting to chatID. apiURL overrides the Telegram API server when not empty.
func NewAnnouncer(token string, chatID int64, apiURL string, log *slog.Logger) (*Announcer, error) {
	b, err := tb.NewBot(tb.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Announcer{
		bot:    b,
		chatID: tb.ChatID(chatID),
		log:    log,
	}, nil
}

func (a *Announcer) AnnounceStory(ctx context.Context, story *dal.Story) error {
	text, err := renderNewStory(story)
	if err != nil {
		return err
	}

	if _, err = a.bot.Send(a.chatID, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	a.log.DebugContext(ctx, "story announced", "story_id", story.ID, "chat_id", int64(a.chatID))
	return nil
}

func renderNewStory(story *dal.Story) (string, error) {
	var buf bytes.Buffer
	if err := newStoryTemplate.Execute(&buf, story); err != nil {
		return "", fmt.Errorf("render message: %w", err)
	}
	return buf.String(), nil
}
