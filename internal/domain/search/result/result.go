package result

import (
	"time"

	"github.com/kailas-cloud/fantom/internal/domain/record"
	"github.com/kailas-cloud/fantom/internal/domain/search/tags"
)

// TimestampLayout is the envelope timestamp format (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Scored is a decoded store record with its relevance score.
type Scored struct {
	Key   string        `json:"key"`
	Value record.Record `json:"value"`
	Score float64       `json:"score"`
}

// Envelope is the response wrapper around ranked results.
type Envelope struct {
	Query     string      `json:"query"`
	Count     int         `json:"count"`
	Results   []Scored    `json:"results"`
	Timestamp string      `json:"timestamp"`
	Tags      tags.Scoped `json:"tags,omitempty"`
}

// Format wraps results stamped with the current time.
func Format(results []Scored, query string) Envelope {
	return FormatAt(results, query, time.Now())
}

// FormatAt wraps results stamped with now.
func FormatAt(results []Scored, query string, now time.Time) Envelope {
	if results == nil {
		results = []Scored{}
	}
	return Envelope{
		Query:     query,
		Count:     len(results),
		Results:   results,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
}

// WithTags attaches the request's scoped tags. Empty maps are omitted.
func (e Envelope) WithTags(scoped tags.Scoped) Envelope {
	if len(scoped) > 0 {
		e.Tags = scoped
	}
	return e
}
