package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/jobs"
)

const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"

	FieldJobTitle   = "job_title"
	FieldJobCompany = "company"
	FieldJobURL     = "url"
	FieldJobSource  = "source"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Keys and values are
// trimmed; pairs with an empty key or value are skipped.
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

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields describes the LLM provider and model behind a request.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// JobFields identifies a posting in log entries.
func JobFields(job *jobs.Job) []zap.Field {
	if job == nil {
		return nil
	}

	return StringFields(
		StringField{Key: FieldJobTitle, Value: job.Title},
		StringField{Key: FieldJobCompany, Value: job.Company},
		StringField{Key: FieldJobURL, Value: job.URL},
		StringField{Key: FieldJobSource, Value: job.Source},
	)
}

func WithJobFields(logger *zap.Logger, job *jobs.Job) *zap.Logger {
	return WithFields(logger, JobFields(job)...)
}
