// Package feed parses raw GeoJSON feature collections from the two wildfire
// data sources into validated in-memory records. Malformed features are
// skipped individually and counted; a single bad feature never aborts a batch.
package feed

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Default property keys for the two feed shapes.
const (
	DefaultDiscoveryKey       = "FireDiscoveryDateTime"
	DefaultSizeKey            = "IncidentSize"
	DefaultOldestDetectionKey = "oldest_detection"
)

// Report carries per-batch diagnostic counts. Informational only.
type Report struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// Parser converts raw feature collections into typed records. Property keys
// default to the WFIGS / OroraTech names and can be overridden for other
// deployments of the same feeds.
type Parser struct {
	DiscoveryKey       string
	SizeKey            string
	OldestDetectionKey string
}

// NewParser returns a Parser with the default property keys.
func NewParser() *Parser {
	return &Parser{
		DiscoveryKey:       DefaultDiscoveryKey,
		SizeKey:            DefaultSizeKey,
		OldestDetectionKey: DefaultOldestDetectionKey,
	}
}

// envelope decodes only the feature list, leaving each feature raw so that
// one undecodable feature cannot abort the whole collection.
type envelope struct {
	Features []json.RawMessage `json:"features"`
}

// features splits a raw feature collection into individual raw features.
// Empty input or a document without a feature list yields an empty slice and
// no error; a document that is not valid JSON at all is a file-level failure.
func features(data []byte) ([]json.RawMessage, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, eris.Wrap(err, "feed: decode feature collection")
	}
	return env.Features, nil
}

// numeric coerces a decoded JSON property value to float64.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
