// Package bot constructs the bot's components and runs them until shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/tnicklin/basic_bot/clock"
	"github.com/tnicklin/basic_bot/commands"
	"github.com/tnicklin/basic_bot/config"
	"github.com/tnicklin/basic_bot/discord"
	"github.com/tnicklin/basic_bot/logger"
)

// App owns exactly one instance of each component.
type App struct {
	config     *config.BotConfig
	logger     logger.Logger
	gateway    discord.Gateway
	dispatcher *commands.Dispatcher
}

// Params supplies the loaded config and, optionally, replacements for the
// default components. A nil Gateway is built from Config.DiscordToken.
type Params struct {
	Config  *config.BotConfig
	Logger  logger.Logger
	Gateway discord.Gateway
	Clock   clock.Clock
}

func New(p Params) (*App, error) {
	if p.Config == nil {
		return nil, errors.New("bot config is nil")
	}

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	gw := p.Gateway
	if gw == nil {
		dg, err := discord.New(discord.Params{
			Config: discord.Config{Token: p.Config.DiscordToken},
			Logger: log.Named("gateway"),
		})
		if err != nil {
			return nil, fmt.Errorf("create gateway: %w", err)
		}
		gw = dg
	}

	dispatcher := commands.New(commands.Params{
		Transport: gw,
		Prefix:    p.Config.CommandPrefix,
		Clock:     p.Clock,
		Logger:    log.Named("commands"),
	})

	return &App{
		config:     p.Config,
		logger:     log,
		gateway:    gw,
		dispatcher: dispatcher,
	}, nil
}

func (a *App) Config() *config.BotConfig { return a.config }

func (a *App) Logger() logger.Logger { return a.logger }

func (a *App) Gateway() discord.Gateway { return a.gateway }

func (a *App) Dispatcher() *commands.Dispatcher { return a.dispatcher }

// Run connects to Discord, starts command handling and blocks until ctx is
// cancelled. Handlers are attached before the connection opens so the first
// Ready event is not missed.
func (a *App) Run(ctx context.Context) error {
	defer a.logger.Sync()

	a.gateway.OnLog(a.handleLog)
	removeReady := a.gateway.OnReady(a.handleReady)
	defer removeReady()

	if err := a.gateway.Open(); err != nil {
		return err
	}
	defer func() {
		if err := a.gateway.Close(); err != nil {
			a.logger.ErrorW("close gateway", "error", err)
		}
	}()

	if err := a.dispatcher.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize commands: %w", err)
	}
	defer a.dispatcher.Close()

	a.logger.InfoW("bot is running")
	<-ctx.Done()
	a.logger.InfoW("shutting down", "reason", context.Cause(ctx))

	return nil
}

func (a *App) handleReady() {
	if err := a.gateway.SetPresence(a.config.GameStatus); err != nil {
		a.logger.ErrorW("set presence", "status", a.config.GameStatus, "error", err)
	}
}

// handleLog writes one line per library log event, at the matching level.
func (a *App) handleLog(msg discord.LogMessage) {
	switch msg.Severity {
	case discordgo.LogError:
		a.logger.ErrorW(msg.Text)
	case discordgo.LogWarning:
		a.logger.WarnW(msg.Text)
	case discordgo.LogDebug:
		a.logger.DebugW(msg.Text)
	default:
		a.logger.Log(msg.Text)
	}
}
