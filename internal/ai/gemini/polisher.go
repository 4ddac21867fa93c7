package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/coverletter"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Polisher rewrites template cover letters with Gemini.
type Polisher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewPolisher(generator contentGenerator, log *zap.Logger, maxLogLength int) *Polisher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Polisher{
		generator: generator,
		logger:    logger.WithCommonFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (p *Polisher) Polish(ctx context.Context, letter string, req coverletter.Request) (string, error) {
	if strings.TrimSpace(letter) == "" {
		return "", errors.New("letter must not be empty")
	}

	prompt := buildPrompt(letter, req)

	p.logger.Debug("gemini polish request",
		zap.String("company", req.Company),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	p.logger.Debug("gemini polish response",
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(letter string, req coverletter.Request) string {
	requirements := coverletter.ExtractRequirements(req.Description)
	lines := make([]string, 0, len(requirements))
	for _, r := range requirements {
		lines = append(lines, "  - "+strings.TrimSpace(r))
	}
	if len(lines) == 0 {
		lines = append(lines, "  - none")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "not provided"
	}

	return strings.NewReplacer(
		"{{JOB_TITLE}}", req.JobTitle,
		"{{COMPANY}}", req.Company,
		"{{REQUIREMENTS}}", strings.Join(lines, "\n"),
		"{{DESCRIPTION}}", description,
		"{{LETTER}}", letter,
	).Replace(promptTemplate)
}

func parseResponse(raw string) (string, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	letter, _ := data["letter"].(string)
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return "", errors.New("gemini response has no letter")
	}

	return letter, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
