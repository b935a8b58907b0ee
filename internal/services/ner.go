package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
)

const LabelPerson = "PERSON"

type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EntityRecognizer labels spans of text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// NopRecognizer never finds anything. It stands in when NER is disabled.
type NopRecognizer struct{}

func (NopRecognizer) Recognize(context.Context, string) ([]Entity, error) {
	return nil, nil
}

type sharedRecognizer struct {
	get func() (EntityRecognizer, error)
}

// NewSharedRecognizer defers building the recognizer until the first
// Recognize call and reuses it (or its construction error) afterwards.
func NewSharedRecognizer(factory func() (EntityRecognizer, error)) EntityRecognizer {
	return &sharedRecognizer{get: sync.OnceValues(factory)}
}

func (s *sharedRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	recognizer, err := s.get()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize entity recognizer: %w", err)
	}
	return recognizer.Recognize(ctx, text)
}

type geminiRecognizer struct {
	gemini        GeminiService
	chunker       TextChunker
	promptBuilder *PromptBuilder
	maxRetries    int
	chunkSize     int
	logger        *zap.Logger
}

const defaultNERChunkSize = 6000

func NewGeminiRecognizer(gemini GeminiService, maxRetries int, logger *zap.Logger) EntityRecognizer {
	return &geminiRecognizer{
		gemini:        gemini,
		chunker:       NewTextChunker(),
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		chunkSize:     defaultNERChunkSize,
		logger:        logger.With(zap.String("component", "ner")),
	}
}

// Recognize implements EntityRecognizer. Long text is sent chunk by chunk;
// scanning stops after the first chunk that contains a PERSON entity.
func (g *geminiRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	var entities []Entity

	for i, chunk := range g.chunker.ChunkText(text, g.chunkSize) {
		prompt := g.promptBuilder.BuildEntityPrompt(chunk)

		response, err := g.gemini.GenerateJSONWithRetry(ctx, prompt, 0, g.maxRetries)
		if err != nil {
			return entities, fmt.Errorf("failed to recognize entities in chunk %d: %w", i+1, err)
		}

		found, err := parseEntities(response)
		if err != nil {
			g.logger.Debug("unparseable entity response", zap.String("response", logger.Preview(response, 200)))
			return entities, fmt.Errorf("failed to parse entities in chunk %d: %w", i+1, err)
		}

		g.logger.Debug("entities recognized", zap.Int("chunk", i+1), zap.Int("count", len(found)))

		entities = append(entities, found...)
		if hasPerson(found) {
			break
		}
	}

	return entities, nil
}

func parseEntities(response string) ([]Entity, error) {
	jsonStr := extractJSON(response)

	var entities []Entity
	if strings.HasPrefix(jsonStr, "{") {
		var wrapped struct {
			Entities []Entity `json:"entities"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &wrapped); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		entities = wrapped.Entities
	} else if err := json.Unmarshal([]byte(jsonStr), &entities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	cleaned := entities[:0]
	for _, e := range entities {
		e.Text = strings.TrimSpace(e.Text)
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		if e.Text != "" {
			cleaned = append(cleaned, e)
		}
	}
	return cleaned, nil
}

func hasPerson(entities []Entity) bool {
	for _, e := range entities {
		if e.Label == LabelPerson {
			return true
		}
	}
	return false
}

// extractJSON strips markdown fences and surrounding prose from a model reply.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj) {
		return text[startArr : endArr+1]
	}
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return text
}
