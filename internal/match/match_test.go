package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/skillcast/internal/store"
)

func profile(id, skills string) store.MemberProfile {
	return store.MemberProfile{MemberID: id, GuildID: "g1", Skills: skills}
}

func TestMembers_SubstringMatch(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("bob", "kubernetes, aws"),
		profile("alice", "python, react"),
	}

	got := Members(profiles, []string{"kubernetes"}, ModeSubstring)
	assert.Equal(t, []string{"bob"}, got)
}

func TestMembers_NoMatch(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("alice", "python, react"),
	}

	got := Members(profiles, []string{"docker"}, ModeSubstring)
	assert.Empty(t, got)
}

func TestMembers_CaseInsensitive(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("carol", "PostgreSQL, Terraform"),
	}

	got := Members(profiles, []string{"postgresql"}, ModeSubstring)
	assert.Equal(t, []string{"carol"}, got)

	got = Members(profiles, []string{"TERRAFORM"}, ModeSubstring)
	assert.Equal(t, []string{"carol"}, got)
}

// A short keyword matches inside an unrelated longer word under substring
// semantics: "go" is a substring of "algorithm". That is the default
// behavior; ModeToken is the corrective alternative.
func TestMembers_SubstringOvermatch(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("dave", "algorithm design"),
	}

	got := Members(profiles, []string{"go"}, ModeSubstring)
	assert.Equal(t, []string{"dave"}, got)

	got = Members(profiles, []string{"go"}, ModeToken)
	assert.Empty(t, got)
}

func TestMembers_TokenMatch(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("erin", "go, distributed systems"),
	}

	got := Members(profiles, []string{"go"}, ModeToken)
	assert.Equal(t, []string{"erin"}, got)

	got = Members(profiles, []string{"distributed systems"}, ModeToken)
	assert.Equal(t, []string{"erin"}, got)

	got = Members(profiles, []string{"distributed"}, ModeToken)
	assert.Empty(t, got)
}

func TestMembers_DeduplicatesAcrossKeywords(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("frank", "python, docker, aws"),
	}

	got := Members(profiles, []string{"python", "docker", "aws"}, ModeSubstring)
	assert.Equal(t, []string{"frank"}, got)
}

func TestMembers_MultipleMatches(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("alice", "python"),
		profile("bob", "docker"),
		profile("carol", "rust"),
	}

	got := Members(profiles, []string{"python", "docker"}, ModeSubstring)
	assert.ElementsMatch(t, []string{"alice", "bob"}, got)
}

func TestMembers_EmptyInputs(t *testing.T) {
	assert.Empty(t, Members(nil, []string{"python"}, ModeSubstring))
	assert.Empty(t, Members([]store.MemberProfile{profile("a", "python")}, nil, ModeSubstring))
}

func TestMembers_SkipsProfilesWithoutID(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("", "python"),
		profile("alice", "python"),
	}

	got := Members(profiles, []string{"python"}, ModeSubstring)
	assert.Equal(t, []string{"alice"}, got)
}

func TestMembers_BlankKeywordsIgnored(t *testing.T) {
	profiles := []store.MemberProfile{
		profile("alice", "python"),
	}

	got := Members(profiles, []string{"  ", ""}, ModeSubstring)
	assert.Empty(t, got)
}
