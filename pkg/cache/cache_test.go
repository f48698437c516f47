package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	prompts := []string{
		"top 5 repositories of octocat",
		"tell me about country BR",
		`quotes " and backslash \ here`,
		"trailing equals==",
		"multi\nline\r\nprompt",
		"unicode: ñandú 日本",
		"percent %41 literal",
		"a/b?c#d",
	}
	for _, p := range prompts {
		key := KeyFor(p)
		assert.True(t, len(key) > len(KeyPrefix))
		assert.NotContains(t, key, " ")
		assert.NotContains(t, key, "\n")

		got, err := DecodeKey(key)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestKeyNormalizesWhitespace(t *testing.T) {
	assert.Equal(t, KeyFor("octocat repos"), KeyFor("  octocat repos\n"))
	assert.NotEqual(t, KeyFor("octocat repos"), KeyFor("octocat  repos"))
}

func TestDecodeKeyRejectsForeignKeys(t *testing.T) {
	_, err := DecodeKey("urn:prompt:abc")
	assert.Error(t, err)

	_, err = DecodeKey(KeyPrefix + "%zz")
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	var c Cache = Disabled{}
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "p", "{}"))
	_, ok := c.Get(ctx, "p")
	assert.False(t, ok)
	require.NoError(t, c.Delete(ctx, "p"))
}
