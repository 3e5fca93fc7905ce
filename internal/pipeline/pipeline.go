// Package pipeline orchestrates resource detection for inbound messages:
// scan for URLs and attachments, classify each source against the guild's
// current skill vocabulary, match keywords to member profiles, and emit at
// most one reply notification. Each run is stateless; failures of one source
// never halt the others and never surface to chat users.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/skillcast/internal/extract"
	"github.com/jonathan/skillcast/internal/match"
	"github.com/jonathan/skillcast/internal/store"
)

// Store is the profile-store surface the pipeline reads.
type Store interface {
	SkillVocabulary(ctx context.Context, guildID string) ([]string, error)
	ListMembers(ctx context.Context, guildID string) ([]store.MemberProfile, error)
}

// Fetcher retrieves a URL's raw markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Classifier returns the vocabulary terms judged relevant to a text.
type Classifier interface {
	Classify(ctx context.Context, text string, vocabulary []string) ([]string, error)
}

// Resolver maps a matched member ID to a platform mention for members
// currently present in the guild. Non-present or unresolvable members are
// dropped silently.
type Resolver interface {
	ResolveMember(guildID, memberID string) (mention string, ok bool)
}

// Notifier delivers the reply notification attached to the original message.
type Notifier interface {
	Reply(ctx context.Context, msg *Message, mentions []string) error
}

// Attachment is one document attached to a message. Read retrieves the raw
// bytes on demand.
type Attachment struct {
	Filename string
	Read     func() ([]byte, error)
}

// Message is one inbound chat message.
type Message struct {
	ID          string
	ChannelID   string
	GuildID     string
	Body        string
	AuthorIsBot bool
	Attachments []Attachment
}

// Result summarizes one detection run.
type Result struct {
	RunID            uuid.UUID
	Keywords         []string
	MatchedMemberIDs []string
	Mentions         []string
	Notified         bool
}

// Options configures a Detector.
type Options struct {
	Store      Store
	Fetcher    Fetcher
	Classifier Classifier
	Resolver   Resolver
	Notifier   Notifier
	Mode       match.Mode
	Logger     *slog.Logger
}

// Detector is the single entry point invoked once per non-bot-authored
// message.
type Detector struct {
	store      Store
	fetcher    Fetcher
	classifier Classifier
	resolver   Resolver
	notifier   Notifier
	mode       match.Mode
	logger     *slog.Logger
}

// New creates a Detector from its collaborators.
func New(opts Options) *Detector {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		classifier: opts.Classifier,
		resolver:   opts.Resolver,
		notifier:   opts.Notifier,
		mode:       opts.Mode,
		logger:     logger,
	}
}

// Detect runs one detection pass over a message. Bot-authored messages are
// ignored. The returned Result is nil only for ignored messages; store
// failures propagate to the caller.
func (d *Detector) Detect(ctx context.Context, msg *Message) (*Result, error) {
	if msg == nil || msg.AuthorIsBot {
		return nil, nil
	}

	runID := uuid.New()
	logger := d.logger.With("run_id", runID.String(), "guild_id", msg.GuildID, "message_id", msg.ID)
	result := &Result{RunID: runID, Keywords: []string{}}

	// The vocabulary is recomputed per detection event, never cached, so
	// classification always sees the current skill set.
	vocabulary, err := d.store.SkillVocabulary(ctx, msg.GuildID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	addKeywords := func(terms []string) {
		for _, term := range terms {
			key := lowerKey(term)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result.Keywords = append(result.Keywords, term)
		}
	}

	// Sources are processed sequentially in encounter order: URLs first,
	// then qualifying attachments.
	for _, url := range ScanURLs(msg.Body) {
		markup, err := d.fetcher.Fetch(ctx, url)
		if err != nil {
			logger.Warn("fetch failed, skipping URL", "url", url, "error", err)
			continue
		}

		text, err := extract.Extract([]byte(markup), extract.KindHTML)
		if err != nil {
			logger.Warn("extraction failed, skipping URL", "url", url, "error", err)
			continue
		}

		terms, err := d.classifier.Classify(ctx, text, vocabulary)
		if err != nil {
			logger.Warn("classification failed, skipping URL", "url", url, "error", err)
			continue
		}
		addKeywords(terms)
	}

	for _, att := range msg.Attachments {
		if !extract.SupportedFilename(att.Filename) {
			continue
		}

		data, err := att.Read()
		if err != nil {
			logger.Warn("attachment read failed, skipping", "filename", att.Filename, "error", err)
			continue
		}

		text, err := extract.FromAttachment(att.Filename, data)
		if err != nil {
			logger.Warn("extraction failed, skipping attachment", "filename", att.Filename, "error", err)
			continue
		}
		if text == "" {
			continue
		}

		terms, err := d.classifier.Classify(ctx, text, vocabulary)
		if err != nil {
			logger.Warn("classification failed, skipping attachment", "filename", att.Filename, "error", err)
			continue
		}
		addKeywords(terms)
	}

	// A resource was found iff the aggregated keyword collection is
	// non-empty.
	if len(result.Keywords) == 0 {
		return result, nil
	}

	profiles, err := d.store.ListMembers(ctx, msg.GuildID)
	if err != nil {
		return nil, err
	}

	result.MatchedMemberIDs = match.Members(profiles, result.Keywords, d.mode)
	if len(result.MatchedMemberIDs) == 0 {
		logger.Debug("resource found but no member matched", "keywords", result.Keywords)
		return result, nil
	}

	result.Mentions = make([]string, 0, len(result.MatchedMemberIDs))
	for _, memberID := range result.MatchedMemberIDs {
		if mention, ok := d.resolver.ResolveMember(msg.GuildID, memberID); ok {
			result.Mentions = append(result.Mentions, mention)
		}
	}
	if len(result.Mentions) == 0 {
		return result, nil
	}

	if err := d.notifier.Reply(ctx, msg, result.Mentions); err != nil {
		logger.Error("failed to send notification", "error", err)
		return result, nil
	}
	result.Notified = true
	logger.Info("resource notification sent",
		"keywords", result.Keywords, "matched_members", len(result.Mentions))

	return result, nil
}

func lowerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
