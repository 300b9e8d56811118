package telegram

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"pagebot/internal/models"
	"pagebot/internal/providers"
	"pagebot/internal/services"
	"pagebot/internal/structures"
)

const defaultPollTimeout = 10 * time.Second

var botCommands = []tele.Command{
	{Text: "start", Description: "Show the main page"},
	{Text: "stats", Description: "Usage statistics (admin only)"},
}

// BotInfo is the identity view served by the admin panel.
type BotInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// TransportInterface is the slice of the chat transport the admin API
// consumes: media upload relay and diagnostics.
type TransportInterface interface {
	UploadMedia(name, mimeType string, data []byte) (string, error)
	Info() (*BotInfo, error)
	Commands() []tele.Command
	AdminChatConfigured() bool
}

// Bot wires the telebot transport to the navigation engine.
type Bot struct {
	bot       *tele.Bot
	conf      *structures.Config
	logger    providers.Logger
	navigator *Navigator
	stats     services.StatsServiceInterface
	recorder  services.RecorderInterface
}

func NewBot(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, state *models.State, stats services.StatsServiceInterface, recorder services.RecorderInterface) (*Bot, error) {
	timeout := conf.Bot.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	pref := tele.Settings{
		Token:  conf.Bot.Token,
		URL:    conf.Bot.APIUrl,
		Poller: &tele.LongPoller{Timeout: timeout},
		OnError: func(err error, c tele.Context) {
			if c != nil && c.Chat() != nil {
				logger.Errorf(providers.TypeBot, "Update error in chat %d: %s", c.Chat().ID, err)
				return
			}
			logger.Errorf(providers.TypeBot, "Update error: %s", err)
		},
	}

	inner, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("cannot create bot: %w", err)
	}

	b := &Bot{
		bot:       inner,
		conf:      conf,
		logger:    logger,
		navigator: NewNavigator(state, inner, logger, metrics),
		stats:     stats,
		recorder:  recorder,
	}
	b.registerHandlers()

	logger.Infof(providers.TypeBot, "Connected as @%s (ID %d)", inner.Me.Username, inner.Me.ID)
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", func(c tele.Context) error {
		b.stats.RecordInteraction(c.Chat().ID)
		b.recorder.Record("interaction", "/start", c.Chat().ID)
		return b.navigator.Render(b.conf.Bot.RootPage, c.Chat().ID, 0)
	})

	b.bot.Handle("/stats", func(c tele.Context) error {
		if !b.isAdminChat(c.Chat().ID) {
			return nil
		}
		return b.sendStatsReport(c)
	})

	b.bot.Handle(tele.OnCallback, func(c tele.Context) error {
		// Ack first so the pending indicator clears even when the
		// dispatch below fails. Best effort, failures ignored.
		defer func() {
			_ = c.Respond()
		}()

		b.stats.RecordInteraction(c.Chat().ID)
		payload := strings.TrimSpace(c.Callback().Data)
		b.recorder.Record("interaction", "callback: "+payload, c.Chat().ID)
		return b.navigator.HandleInteraction(c.Chat().ID, c.Message().ID, payload)
	})
}

func (b *Bot) isAdminChat(chatID int64) bool {
	return b.conf.Bot.AdminChatID != 0 && chatID == b.conf.Bot.AdminChatID
}

func (b *Bot) sendStatsReport(c tele.Context) error {
	snap := b.stats.Snapshot()
	text := fmt.Sprintf("<b>Bot statistics</b>\n\n"+
		"Users: <b>%d</b> (today %d)\n"+
		"Messages: <b>%d</b> (today %d)\n"+
		"Uptime: %d min",
		snap.TotalUsers, snap.TodayUsers, snap.TotalMessages, snap.TodayMessages, snap.UptimeMinutes)

	img, err := b.stats.ActivityChartPNG()
	if err != nil {
		b.logger.Warnf(providers.TypeBot, "Cannot render stats chart: %s", err)
		return c.Send(text, tele.ModeHTML)
	}
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(img)), Caption: text}
	return c.Send(photo, tele.ModeHTML)
}

// Start registers the command list and enters the long-polling loop.
// Blocks until Stop.
func (b *Bot) Start() {
	if err := b.bot.SetCommands(botCommands); err != nil {
		b.logger.Warnf(providers.TypeBot, "Cannot register bot commands: %s", err)
	}
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

// Navigator exposes the navigation engine, e.g. for preview rendering.
func (b *Bot) Navigator() *Navigator {
	return b.navigator
}

func (b *Bot) AdminChatConfigured() bool {
	return b.conf.Bot.AdminChatID != 0
}

// UploadMedia relays the uploaded bytes through the admin chat and
// returns the transport handle the platform assigned, reusable for all
// future deliveries without re-uploading.
func (b *Bot) UploadMedia(name, mimeType string, data []byte) (string, error) {
	if !b.AdminChatConfigured() {
		return "", errors.New("no admin chat configured")
	}

	file := tele.FromReader(bytes.NewReader(data))

	var media interface{}
	switch mimeClass(mimeType) {
	case classPhoto:
		media = &tele.Photo{File: file}
	case classVideo:
		media = &tele.Video{File: file, FileName: name}
	case classAudio:
		media = &tele.Audio{File: file, FileName: name}
	default:
		media = &tele.Document{File: file, FileName: name}
	}

	msg, err := b.bot.Send(tele.ChatID(b.conf.Bot.AdminChatID), media)
	if err != nil {
		return "", fmt.Errorf("transport rejected upload: %w", err)
	}

	handle := handleFromMessage(msg)
	if handle == "" {
		return "", errors.New("transport returned no file handle")
	}
	return handle, nil
}

func handleFromMessage(msg *tele.Message) string {
	switch {
	case msg.Photo != nil:
		return msg.Photo.FileID
	case msg.Video != nil:
		return msg.Video.FileID
	case msg.Audio != nil:
		return msg.Audio.FileID
	case msg.Document != nil:
		return msg.Document.FileID
	}
	return ""
}

func (b *Bot) Info() (*BotInfo, error) {
	if b.bot.Me == nil {
		return nil, errors.New("bot identity unavailable")
	}
	return &BotInfo{
		ID:        b.bot.Me.ID,
		Username:  b.bot.Me.Username,
		FirstName: b.bot.Me.FirstName,
	}, nil
}

func (b *Bot) Commands() []tele.Command {
	return botCommands
}
