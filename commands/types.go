// Package commands routes prefixed chat messages to registered command
// handlers.
package commands

import (
	"context"

	"github.com/tnicklin/basic_bot/discord"
)

// Invocation is a single parsed command call.
type Invocation struct {
	Name    string
	Args    []string
	Message discord.Message
}

// Command is a named handler. A non-empty reply is sent back to the channel
// the command came from.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) (string, error)
}

// Transport is the part of the gateway the dispatcher needs.
type Transport interface {
	OnMessage(fn func(discord.Message)) func()
	SendMessage(channelID, content string) error
}
