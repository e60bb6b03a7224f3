package users

import "github.com/kailas-cloud/fantom/internal/domain/search/algorithm"

// Entry maps one user to a default ranking algorithm.
type Entry struct {
	UserID    string              `json:"user_id"`
	Algorithm algorithm.Algorithm `json:"algorithm"`
}

// Config is the immutable user-to-algorithm configuration.
type Config struct {
	entries []Entry
}

// NewConfig builds a Config. The slice is copied.
func NewConfig(entries []Entry) Config {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return Config{entries: cp}
}

// Entries returns a copy of the configured entries.
func (c Config) Entries() []Entry {
	cp := make([]Entry, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Len returns the number of entries.
func (c Config) Len() int { return len(c.entries) }

// AlgorithmFor returns the algorithm of the first entry for userID.
func (c Config) AlgorithmFor(userID string) (algorithm.Algorithm, bool) {
	for _, e := range c.entries {
		if e.UserID == userID {
			return e.Algorithm, true
		}
	}
	return "", false
}
