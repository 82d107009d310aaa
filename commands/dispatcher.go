package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tnicklin/basic_bot/clock"
	"github.com/tnicklin/basic_bot/discord"
	"github.com/tnicklin/basic_bot/logger"
)

const defaultPrefix = "!"

// Dispatcher parses incoming messages and runs the matching command on its
// own goroutine.
type Dispatcher struct {
	transport Transport
	prefix    string
	clock     clock.Clock
	logger    logger.Logger

	mu            sync.RWMutex
	commands      map[string]Command
	removeHandler func()
	ctx           context.Context
	cancel        context.CancelFunc
	inflight      sync.WaitGroup
}

type Params struct {
	Transport Transport
	Prefix    string
	Clock     clock.Clock
	Logger    logger.Logger
}

func New(p Params) *Dispatcher {
	prefix := p.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Dispatcher{
		transport: p.Transport,
		prefix:    prefix,
		clock:     clk,
		logger:    log,
		commands:  make(map[string]Command),
	}
}

// Register adds commands. Names are case-insensitive and must be unique.
func (d *Dispatcher) Register(cmds ...Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, cmd := range cmds {
		name := strings.ToLower(cmd.Name())
		if name == "" || strings.ContainsAny(name, " \t\n") {
			return fmt.Errorf("invalid command name %q", cmd.Name())
		}
		if _, ok := d.commands[name]; ok {
			return fmt.Errorf("command %q already registered", name)
		}
		d.commands[name] = cmd
	}
	return nil
}

// Commands returns the registered commands sorted by name.
func (d *Dispatcher) Commands() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Command, 0, len(d.commands))
	for _, cmd := range d.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Initialize loads the built-in commands and starts listening for messages.
// Commands run with a context derived from ctx that is cancelled by Close.
func (d *Dispatcher) Initialize(ctx context.Context) error {
	if d.transport == nil {
		return errors.New("dispatcher has no transport")
	}

	d.mu.RLock()
	initialized := d.ctx != nil
	d.mu.RUnlock()
	if initialized {
		return errors.New("dispatcher already initialized")
	}

	if err := d.Register(builtins(d)...); err != nil {
		return fmt.Errorf("register built-in commands: %w", err)
	}

	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.removeHandler = d.transport.OnMessage(d.handleMessage)
	d.mu.Unlock()

	d.logger.InfoW("command dispatcher ready", "prefix", d.prefix, "commands", len(d.Commands()))
	return nil
}

// Close stops listening and waits for running commands to return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.removeHandler != nil {
		d.removeHandler()
		d.removeHandler = nil
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.inflight.Wait()
}

func (d *Dispatcher) handleMessage(m discord.Message) {
	if m.AuthorBot {
		return
	}

	inv, ok := d.parse(m)
	if !ok {
		return
	}

	// inflight.Add happens under the read lock so it cannot race with the
	// Wait in Close, which cancels ctx under the write lock first.
	d.mu.RLock()
	cmd, found := d.commands[inv.Name]
	ctx := d.ctx
	if !found || ctx == nil || ctx.Err() != nil {
		d.mu.RUnlock()
		return
	}
	d.inflight.Add(1)
	d.mu.RUnlock()

	go func() {
		defer d.inflight.Done()
		d.run(ctx, cmd, inv)
	}()
}

func (d *Dispatcher) parse(m discord.Message) (*Invocation, bool) {
	if !strings.HasPrefix(m.Content, d.prefix) {
		return nil, false
	}

	parts := strings.Fields(strings.TrimPrefix(m.Content, d.prefix))
	if len(parts) == 0 {
		return nil, false
	}

	return &Invocation{
		Name:    strings.ToLower(parts[0]),
		Args:    parts[1:],
		Message: m,
	}, true
}

func (d *Dispatcher) run(ctx context.Context, cmd Command, inv *Invocation) {
	response, err := cmd.Run(ctx, inv)
	if err != nil {
		d.logger.ErrorW("command failed", "command", inv.Name, "channel", inv.Message.ChannelID, "error", err)
		response = fmt.Sprintf("Error: %v", err)
	}

	if response == "" {
		return
	}
	if err := d.transport.SendMessage(inv.Message.ChannelID, response); err != nil {
		d.logger.ErrorW("failed to send response", "command", inv.Name, "error", err)
	}
}
