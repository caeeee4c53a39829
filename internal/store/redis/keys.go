package redis

import "strings"

const (
	// KeyPrefixKV is the prefix under which storage entries live.
	KeyPrefixKV = "startpage:kv:"
	// KeyPrefixSuggest is the prefix for cached suggestion lists.
	KeyPrefixSuggest = "startpage:suggest:"
	// KeyAllKV is the set of every storage key ever written.
	KeyAllKV = "startpage:keys"
)

// EntryKey returns the Redis key for a storage entry.
func EntryKey(key string) string {
	return KeyPrefixKV + key
}

// SuggestKey returns the Redis key for the suggestions of query. Queries are
// case-folded and trimmed so "Go " and "go" share an entry.
func SuggestKey(query string) string {
	return KeyPrefixSuggest + strings.ToLower(strings.TrimSpace(query))
}
