package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// keepLogHook puts discordgo's package-level logger back after the test.
func keepLogHook(t *testing.T) {
	t.Helper()
	prev := discordgo.Logger
	t.Cleanup(func() { discordgo.Logger = prev })
}

func TestNew(t *testing.T) {
	keepLogHook(t)

	tests := []struct {
		name      string
		config    Config
		wantErr   bool
		wantCache int
	}{
		{
			name:      "default cache size",
			config:    Config{Token: "abc"},
			wantCache: defaultMessageCacheSize,
		},
		{
			name:      "custom cache size",
			config:    Config{Token: "abc", MessageCacheSize: 25},
			wantCache: 25,
		},
		{
			name:    "empty token",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(Params{Config: tt.config})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if g.session.Token != "Bot "+tt.config.Token {
				t.Errorf("session.Token = %q, want %q", g.session.Token, "Bot "+tt.config.Token)
			}
			if g.session.Identify.Intents != intents {
				t.Errorf("Identify.Intents = %v, want %v", g.session.Identify.Intents, intents)
			}
			if g.session.State.MaxMessageCount != tt.wantCache {
				t.Errorf("State.MaxMessageCount = %d, want %d", g.session.State.MaxMessageCount, tt.wantCache)
			}
			if g.session.LogLevel != discordgo.LogInformational {
				t.Errorf("LogLevel = %d, want %d", g.session.LogLevel, discordgo.LogInformational)
			}
		})
	}
}

func TestOnLog(t *testing.T) {
	keepLogHook(t)

	g, err := New(Params{Config: Config{Token: "abc"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var got []LogMessage
	g.OnLog(func(m LogMessage) { got = append(got, m) })

	discordgo.Logger(discordgo.LogWarning, 1, "heartbeat ack missed %d times", 2)

	if len(got) != 1 {
		t.Fatalf("got %d log messages, want 1", len(got))
	}
	if got[0].Text != "heartbeat ack missed 2 times" {
		t.Errorf("Text = %q, want %q", got[0].Text, "heartbeat ack missed 2 times")
	}
	if got[0].Severity != discordgo.LogWarning {
		t.Errorf("Severity = %d, want %d", got[0].Severity, discordgo.LogWarning)
	}
}

func TestClose_RestoresLogHook(t *testing.T) {
	keepLogHook(t)
	discordgo.Logger = nil

	g, err := New(Params{Config: Config{Token: "abc"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if discordgo.Logger == nil {
		t.Fatal("New() did not install the log hook")
	}

	_ = g.Close()
	if discordgo.Logger != nil {
		t.Error("Close() did not restore the previous log hook")
	}
}

func TestReadyHandler(t *testing.T) {
	calls := 0
	h := readyHandler(func() { calls++ })

	h(nil, &discordgo.Ready{})

	if calls != 1 {
		t.Errorf("ready callback ran %d times, want 1", calls)
	}
}

func TestMessageHandler(t *testing.T) {
	tests := []struct {
		name  string
		event *discordgo.MessageCreate
		want  *Message
	}{
		{
			name: "user message",
			event: &discordgo.MessageCreate{Message: &discordgo.Message{
				ID:        "m1",
				ChannelID: "c1",
				GuildID:   "g1",
				Content:   "!ping",
				Author:    &discordgo.User{ID: "u1", Username: "alice"},
			}},
			want: &Message{
				ID:         "m1",
				ChannelID:  "c1",
				GuildID:    "g1",
				AuthorID:   "u1",
				AuthorName: "alice",
				Content:    "!ping",
			},
		},
		{
			name: "bot author",
			event: &discordgo.MessageCreate{Message: &discordgo.Message{
				ChannelID: "c1",
				Content:   "hi",
				Author:    &discordgo.User{ID: "b1", Bot: true},
			}},
			want: &Message{ChannelID: "c1", AuthorID: "b1", AuthorBot: true, Content: "hi"},
		},
		{
			name:  "missing author",
			event: &discordgo.MessageCreate{Message: &discordgo.Message{ChannelID: "c1", Content: "hi"}},
			want:  &Message{ChannelID: "c1", Content: "hi"},
		},
		{
			name:  "empty event",
			event: &discordgo.MessageCreate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *Message
			h := messageHandler(func(m Message) { got = &m })

			h(nil, tt.event)

			if tt.want == nil {
				if got != nil {
					t.Errorf("handler delivered %+v, want nothing", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("handler delivered nothing")
			}
			if *got != *tt.want {
				t.Errorf("got %+v, want %+v", *got, *tt.want)
			}
		})
	}
}
