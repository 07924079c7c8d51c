package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyKeysFor_KnownProviders(t *testing.T) {
	keys, ok := legacyKeysFor("github.com")
	require.True(t, ok)
	assert.Equal(t, "githubUsername", keys.username)
	assert.Equal(t, "githubToken", keys.token)
	assert.Contains(t, keys.all(), "githubAccessToken")

	keys, ok = legacyKeysFor("gitlab.com")
	require.True(t, ok)
	assert.Equal(t, "gitlabUsername", keys.username)

	_, ok = legacyKeysFor("bitbucket.org")
	assert.True(t, ok)
}

func TestLegacyKeysFor_UnknownProviderHasNoLegacyPath(t *testing.T) {
	_, ok := legacyKeysFor("codeberg.org")
	assert.False(t, ok)
}

func TestLegacyKeySet_AllContainsEveryVariant(t *testing.T) {
	keys := legacyKeySet{
		username: "u",
		token:    "t",
		variants: []string{"v1", "v2"},
	}
	assert.ElementsMatch(t, []string{"u", "t", "v1", "v2"}, keys.all())
}
