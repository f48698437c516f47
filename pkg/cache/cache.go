// Package cache defines the prompt result cache shared by the triple store
// and SQLite backends, and the derivation of prompt keys.
package cache

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
)

// KeyPrefix starts every prompt key.
const KeyPrefix = "urn:gait:prompt:"

// Cache stores external API results keyed by the prompt that produced them.
//
// Get never fails: backing store errors are logged and reported as a miss.
// Put overwrites any existing entry for the prompt. Delete of an absent
// prompt is not an error.
type Cache interface {
	Get(ctx context.Context, prompt string) (models.CacheEntry, bool)
	Put(ctx context.Context, prompt, payload string) error
	Delete(ctx context.Context, prompt string) error
	Stats(ctx context.Context) (models.CacheStats, error)
	Clear(ctx context.Context, expiredOnly bool) error
}

// Clock returns the current time. Backends take one so expiry can be tested
// without sleeping.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// Normalize trims surrounding whitespace. Prompts that differ only there
// share an entry.
func Normalize(prompt string) string {
	return strings.TrimSpace(prompt)
}

// KeyFor returns the prompt key for prompt. The key is a valid IRI and
// decodes back to the normalized prompt.
func KeyFor(prompt string) string {
	return KeyPrefix + url.PathEscape(Normalize(prompt))
}

// DecodeKey returns the normalized prompt a key was derived from.
func DecodeKey(key string) (string, error) {
	rest, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return "", errors.Newf("prompt key %q lacks prefix %q", key, KeyPrefix)
	}
	prompt, err := url.PathUnescape(rest)
	if err != nil {
		return "", errors.Wrapf(err, "decode prompt key %q", key)
	}
	return prompt, nil
}

// Disabled is a Cache that stores nothing. It is used when caching is
// switched off in the configuration.
type Disabled struct{}

func (Disabled) Get(context.Context, string) (models.CacheEntry, bool) {
	return models.CacheEntry{}, false
}

func (Disabled) Put(context.Context, string, string) error { return nil }

func (Disabled) Delete(context.Context, string) error { return nil }

func (Disabled) Stats(context.Context) (models.CacheStats, error) {
	return models.CacheStats{}, nil
}

func (Disabled) Clear(context.Context, bool) error { return nil }
