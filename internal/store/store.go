// Package store provides PostgreSQL access to member profiles and guild
// settings. Every operation acquires a pooled connection for the duration of
// that single statement and releases it on exit; no connection is held
// across a network suspension point.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS members (
			member_id  TEXT NOT NULL,
			guild_id   TEXT NOT NULL,
			username   TEXT NOT NULL DEFAULT '',
			job_title  TEXT NOT NULL DEFAULT '',
			skills     TEXT NOT NULL DEFAULT '',
			interests  TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (member_id, guild_id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create members table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS guild_settings (
			guild_id   TEXT PRIMARY KEY,
			theme      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create guild_settings table: %w", err)
	}

	return nil
}

// UpsertMember saves or updates a member profile.
func (s *Store) UpsertMember(ctx context.Context, profile *MemberProfile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO members (member_id, guild_id, username, job_title, skills, interests)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (member_id, guild_id) DO UPDATE SET
		   username = EXCLUDED.username,
		   job_title = EXCLUDED.job_title,
		   skills = EXCLUDED.skills,
		   interests = EXCLUDED.interests,
		   updated_at = NOW()`,
		profile.MemberID, profile.GuildID, profile.Username,
		profile.JobTitle, profile.Skills, profile.Interests,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

// GetMember retrieves one member's profile. Returns (nil, nil) when the
// member has not registered.
func (s *Store) GetMember(ctx context.Context, memberID, guildID string) (*MemberProfile, error) {
	var p MemberProfile
	err := s.pool.QueryRow(ctx,
		`SELECT member_id, guild_id, username, job_title, skills, interests, created_at, updated_at
		 FROM members WHERE member_id = $1 AND guild_id = $2`,
		memberID, guildID,
	).Scan(&p.MemberID, &p.GuildID, &p.Username, &p.JobTitle, &p.Skills, &p.Interests, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &p, nil
}

// ListMembers returns all registered profiles for a guild.
func (s *Store) ListMembers(ctx context.Context, guildID string) ([]MemberProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT member_id, guild_id, username, job_title, skills, interests, created_at, updated_at
		 FROM members WHERE guild_id = $1`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var profiles []MemberProfile
	for rows.Next() {
		var p MemberProfile
		if err := rows.Scan(&p.MemberID, &p.GuildID, &p.Username, &p.JobTitle, &p.Skills, &p.Interests, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	return profiles, nil
}

// SkillVocabulary returns the union of all skill terms registered by a
// guild's members, recomputed from the current table contents on every call.
// Classification always sees the skill set as of the detection event.
func (s *Store) SkillVocabulary(ctx context.Context, guildID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT skills FROM members WHERE guild_id = $1`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var skillRows []string
	for rows.Next() {
		var skills string
		if err := rows.Scan(&skills); err != nil {
			return nil, fmt.Errorf("failed to scan skills: %w", err)
		}
		skillRows = append(skillRows, skills)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}

	return FlattenVocabulary(skillRows), nil
}

// GetTheme returns the guild's configured theme, or the empty string when
// none is set.
func (s *Store) GetTheme(ctx context.Context, guildID string) (string, error) {
	var theme string
	err := s.pool.QueryRow(ctx,
		`SELECT theme FROM guild_settings WHERE guild_id = $1`,
		guildID,
	).Scan(&theme)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get theme: %w", err)
	}
	return theme, nil
}

// SetTheme saves the guild's theme configuration.
func (s *Store) SetTheme(ctx context.Context, guildID, theme string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO guild_settings (guild_id, theme)
		 VALUES ($1, $2)
		 ON CONFLICT (guild_id) DO UPDATE SET theme = EXCLUDED.theme`,
		guildID, theme,
	)
	if err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	return nil
}

// CountMembers returns the number of registered profiles for a guild.
func (s *Store) CountMembers(ctx context.Context, guildID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE guild_id = $1`,
		guildID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// FlattenVocabulary splits comma-separated skills rows into a single list of
// trimmed terms, deduplicated case-insensitively with first-seen casing
// preserved. Ordering carries no meaning; membership is what matters.
func FlattenVocabulary(skillRows []string) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	for _, row := range skillRows {
		for _, term := range strings.Split(row, ",") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			key := strings.ToLower(term)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, term)
		}
	}
	return terms
}
