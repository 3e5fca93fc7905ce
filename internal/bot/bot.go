// Package bot adapts the chat platform to the detection pipeline: it turns
// gateway message events into pipeline runs, resolves matched members to
// mentions, and delivers the reply notification. Slash commands for profile
// registration and guild settings live in commands.go.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jonathan/skillcast/internal/match"
	"github.com/jonathan/skillcast/internal/pipeline"
	"github.com/jonathan/skillcast/internal/store"
)

// Embed colors matching the platform's conventional palette.
const (
	colorBlue  = 0x3498db
	colorGreen = 0x2ecc71
)

// Config holds the collaborators a Bot is built from.
type Config struct {
	Token        string
	Store        *store.Store
	Fetcher      pipeline.Fetcher
	Classifier   pipeline.Classifier
	Mode         match.Mode
	DefaultTheme string
	Logger       *slog.Logger
}

// Bot owns the gateway session and dispatches events to the pipeline.
type Bot struct {
	session      *discordgo.Session
	store        *store.Store
	detector     *pipeline.Detector
	defaultTheme string
	logger       *slog.Logger
	httpClient   *http.Client
}

// New creates a Bot and its Detector. The session is not opened yet; call
// Open.
func New(cfg Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		session:      session,
		store:        cfg.Store,
		defaultTheme: cfg.DefaultTheme,
		logger:       logger,
		httpClient:   &http.Client{},
	}

	b.detector = pipeline.New(pipeline.Options{
		Store:      cfg.Store,
		Fetcher:    cfg.Fetcher,
		Classifier: cfg.Classifier,
		Resolver:   b,
		Notifier:   b,
		Mode:       cfg.Mode,
		Logger:     logger,
	})

	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentGuildMembers

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Open connects to the gateway and registers the slash commands.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		_ = b.session.Close()
		return err
	}

	return nil
}

// Close shuts down the gateway connection.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("connected to gateway", "user", r.User.Username)
}

// onMessageCreate runs one detection pass per inbound message. The gateway
// library dispatches each event on its own goroutine, so concurrent messages
// interleave without blocking one another.
func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	msg := &pipeline.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
		Body:        m.Content,
		Attachments: b.wrapAttachments(m.Attachments),
	}

	if _, err := b.detector.Detect(context.Background(), msg); err != nil {
		b.logger.Error("detection run failed", "message_id", m.ID, "error", err)
	}
}

// wrapAttachments exposes message attachments as lazy byte readers.
func (b *Bot) wrapAttachments(attachments []*discordgo.MessageAttachment) []pipeline.Attachment {
	wrapped := make([]pipeline.Attachment, 0, len(attachments))
	for _, att := range attachments {
		url := att.URL
		wrapped = append(wrapped, pipeline.Attachment{
			Filename: att.Filename,
			Read:     func() ([]byte, error) { return b.downloadAttachment(url) },
		})
	}
	return wrapped
}

func (b *Bot) downloadAttachment(url string) ([]byte, error) {
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// ResolveMember implements pipeline.Resolver. Members who have left the
// guild or cannot be looked up are dropped.
func (b *Bot) ResolveMember(guildID, memberID string) (string, bool) {
	member, err := b.session.State.Member(guildID, memberID)
	if err != nil {
		member, err = b.session.GuildMember(guildID, memberID)
		if err != nil {
			return "", false
		}
	}
	if member == nil || member.User == nil {
		return "", false
	}
	return member.User.Mention(), true
}

// Reply implements pipeline.Notifier: one notification embed attached to the
// original message.
func (b *Bot) Reply(_ context.Context, msg *pipeline.Message, mentions []string) error {
	embed := notificationEmbed(mentions)
	_, err := b.session.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Reference: &discordgo.MessageReference{
			MessageID: msg.ID,
			ChannelID: msg.ChannelID,
			GuildID:   msg.GuildID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// notificationEmbed builds the reply embed listing the matched members.
func notificationEmbed(mentions []string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📚 Relevant Resource Detected",
		Description: "This resource has been found to be relevant for you",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Relevant for",
				Value:  joinMentions(mentions),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "This resource matches your profile interests/skills",
		},
	}
}

func joinMentions(mentions []string) string {
	return strings.Join(mentions, " ")
}
