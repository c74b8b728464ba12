package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the batch provider tag.
	FieldProvider = "provider"
	// FieldQuery is the structured log field key for the search query of a batch.
	FieldQuery = "query"
	// FieldFile is the structured log field key for the batch file path.
	FieldFile = "file"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// BatchFields returns the zap fields that identify a raw batch.
// Empty values are ignored to keep log entries compact when information is missing.
func BatchFields(provider, query, file string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldQuery, Value: query},
		StringField{Key: FieldFile, Value: file},
	)
}

// WithBatchFields attaches the batch fields to the provided logger.
// If the logger is nil, a no-op logger is created to avoid panics.
func WithBatchFields(logger *zap.Logger, provider, query, file string) *zap.Logger {
	return WithFields(logger, BatchFields(provider, query, file)...)
}
