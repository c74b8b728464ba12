// Package batch reads raw provider batches written by fetcher collaborators.
package batch

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrNoRecords is returned when a batch file holds neither a record array
// nor a known envelope object.
var ErrNoRecords = errors.New("no record list found")

// Batch is one finite set of raw records produced by a provider for a query.
type Batch struct {
	Provider string
	Query    string
	Path     string
	Records  []map[string]any
}

func (b *Batch) Len() int {
	return len(b.Records)
}

// envelope covers the response shapes providers wrap their records in:
// tavily uses "results", jsearch "data".
type envelope struct {
	Results []any `mapstructure:"results"`
	Data    []any `mapstructure:"data"`
	Items   []any `mapstructure:"items"`
}

// Load reads a batch file. Files ending in .gz are decompressed.
func Load(provider, query, path string) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body io.ReadCloser = file
	if strings.HasSuffix(path, ".gz") {
		body, err = gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer body.Close()
	}

	records, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &Batch{
		Provider: provider,
		Query:    query,
		Path:     path,
		Records:  records,
	}, nil
}

// Decode parses a JSON array of records or an envelope object carrying one.
func Decode(r io.Reader) ([]map[string]any, error) {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	switch typed := raw.(type) {
	case []any:
		return objects(typed), nil
	case map[string]any:
		var env envelope
		if err := mapstructure.Decode(typed, &env); err != nil {
			return nil, err
		}
		switch {
		case env.Results != nil:
			return objects(env.Results), nil
		case env.Data != nil:
			return objects(env.Data), nil
		case env.Items != nil:
			return objects(env.Items), nil
		}
		return nil, ErrNoRecords
	case nil:
		return nil, nil
	default:
		return nil, ErrNoRecords
	}
}

// objects keeps only JSON objects; anything else cannot be a provider record.
func objects(items []any) []map[string]any {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records
}
