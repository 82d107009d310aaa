package discord

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/basic_bot/logger"
)

var _ Gateway = (*DefaultGateway)(nil)

const (
	defaultMessageCacheSize = 100

	intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
)

// DefaultGateway is a Gateway backed by a discordgo session. Reconnects,
// heartbeats and rate limits are handled by discordgo.
type DefaultGateway struct {
	session *discordgo.Session
	logger  logger.Logger

	// prevLogHook is the discordgo.Logger value replaced by New and put
	// back by Close.
	prevLogHook func(msgL, caller int, format string, a ...any)

	mu          sync.RWMutex
	logHandlers []func(LogMessage)
}

type Params struct {
	Config Config
	Logger logger.Logger
}

// New creates a gateway for the bot token in p.Config. The connection is not
// opened until Open is called.
//
// discordgo routes its internal logging through a package-level hook, so the
// most recently created gateway receives library log lines until it is
// closed.
func New(p Params) (*DefaultGateway, error) {
	cfg := p.Config
	if cfg.Token == "" {
		return nil, errors.New("discord token is empty")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = intents
	session.LogLevel = discordgo.LogInformational

	cacheSize := cfg.MessageCacheSize
	if cacheSize <= 0 {
		cacheSize = defaultMessageCacheSize
	}
	session.State.MaxMessageCount = cacheSize

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	g := &DefaultGateway{
		session:     session,
		logger:      log,
		prevLogHook: discordgo.Logger,
	}
	discordgo.Logger = g.emitLog

	return g, nil
}

func (g *DefaultGateway) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	g.logger.InfoW("discord connection opened", "intents", int(intents))
	return nil
}

func (g *DefaultGateway) Close() error {
	err := g.session.Close()
	discordgo.Logger = g.prevLogHook
	if err != nil {
		return fmt.Errorf("close discord connection: %w", err)
	}
	return nil
}

// SetPresence shows status as the bot's "Playing" activity.
func (g *DefaultGateway) SetPresence(status string) error {
	if err := g.session.UpdateGameStatus(0, status); err != nil {
		return fmt.Errorf("update game status: %w", err)
	}
	return nil
}

func (g *DefaultGateway) SendMessage(channelID, content string) error {
	if g.session == nil {
		return errors.New("discord session is nil")
	}
	_, err := g.session.ChannelMessageSend(channelID, content)
	return err
}

func (g *DefaultGateway) OnReady(fn func()) func() {
	return g.session.AddHandler(readyHandler(fn))
}

func (g *DefaultGateway) OnMessage(fn func(Message)) func() {
	return g.session.AddHandler(messageHandler(fn))
}

func (g *DefaultGateway) OnLog(fn func(LogMessage)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logHandlers = append(g.logHandlers, fn)
}

func (g *DefaultGateway) emitLog(msgL, _ int, format string, a ...any) {
	msg := LogMessage{
		Severity: msgL,
		Text:     fmt.Sprintf(format, a...),
	}

	g.mu.RLock()
	handlers := g.logHandlers
	g.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}

func readyHandler(fn func()) func(*discordgo.Session, *discordgo.Ready) {
	return func(_ *discordgo.Session, _ *discordgo.Ready) {
		fn()
	}
}

func messageHandler(fn func(Message)) func(*discordgo.Session, *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Message == nil {
			return
		}
		fn(toMessage(m.Message))
	}
}

func toMessage(m *discordgo.Message) Message {
	msg := Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AuthorBot = m.Author.Bot
	}
	return msg
}
