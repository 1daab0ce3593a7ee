package security

import (
	"strings"
	"sync"
)

// CredentialStore maps href prefixes to Credentials. Lookups resolve by
// longest-prefix match so a store entry for "https://example.com" serves
// as a fallback for every device under that origin while a more specific
// entry for "https://example.com/device1" wins for that device's forms.
type CredentialStore struct {
	mu      sync.RWMutex
	entries map[string]Credentials
}

// NewCredentialStore returns an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{entries: make(map[string]Credentials)}
}

// Set installs or replaces the credentials registered for hrefPrefix.
func (s *CredentialStore) Set(hrefPrefix string, creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[hrefPrefix] = creds
}

// Delete removes the credentials registered for hrefPrefix, if any.
func (s *CredentialStore) Delete(hrefPrefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, hrefPrefix)
}

// Replace atomically swaps the entire entry set, used by
// pkg/config.WatchCredentialStore to apply a reloaded file without
// disturbing concurrent lookups.
func (s *CredentialStore) Replace(entries map[string]Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

// lookup returns the credentials registered under the longest prefix of
// href found in the store, and whether any prefix matched at all. Ties
// between equal-length prefixes are broken by lexicographic order of
// the store keys, so the result is deterministic regardless of map
// iteration order.
func (s *CredentialStore) lookup(href string) (Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best string
	var bestCreds Credentials
	found := false
	for prefix, creds := range s.entries {
		if !strings.HasPrefix(href, prefix) {
			continue
		}
		if !found || len(prefix) > len(best) || (len(prefix) == len(best) && prefix > best) {
			best = prefix
			bestCreds = creds
			found = true
		}
	}
	return bestCreds, found
}
