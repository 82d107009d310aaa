package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tnicklin/basic_bot/clock"
)

func builtins(d *Dispatcher) []Command {
	return []Command{
		helpCommand{d: d},
		pingCommand{},
		uptimeCommand{clock: d.clock, started: d.clock.Now()},
	}
}

type helpCommand struct {
	d *Dispatcher
}

func (helpCommand) Name() string        { return "help" }
func (helpCommand) Description() string { return "Show this help message" }

func (c helpCommand) Run(_ context.Context, _ *Invocation) (string, error) {
	cmds := c.d.Commands()

	width := 0
	for _, cmd := range cmds {
		if n := len(c.d.prefix + cmd.Name()); n > width {
			width = n
		}
	}

	var sb strings.Builder
	sb.WriteString("**Available Commands:**\n```\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&sb, "%-*s - %s\n", width, c.d.prefix+cmd.Name(), cmd.Description())
	}
	sb.WriteString("```")
	return sb.String(), nil
}

type pingCommand struct{}

func (pingCommand) Name() string        { return "ping" }
func (pingCommand) Description() string { return "Check that the bot is responding" }

func (pingCommand) Run(_ context.Context, _ *Invocation) (string, error) {
	return "Pong!", nil
}

type uptimeCommand struct {
	clock   clock.Clock
	started time.Time
}

func (uptimeCommand) Name() string        { return "uptime" }
func (uptimeCommand) Description() string { return "Show how long the bot has been running" }

func (c uptimeCommand) Run(_ context.Context, _ *Invocation) (string, error) {
	up := c.clock.Now().Sub(c.started).Truncate(time.Second)
	return fmt.Sprintf("Up for %s.", up), nil
}
