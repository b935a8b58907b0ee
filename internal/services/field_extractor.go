package services

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

const DefaultSkillsWindow = 300

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`\b\d{10}\b|\+?\d{1,2}\s?\d{10}\b`)
	linkedInPattern = regexp.MustCompile(`linkedin\.com/in/[A-Za-z0-9_-]+`)
	gitHubPattern   = regexp.MustCompile(`github\.com/[A-Za-z0-9_-]+`)

	// Checked in order; the first marker present wins.
	skillsMarkers = []string{"skills", "technical skills", "key skills"}
)

type FieldExtractor interface {
	Extract(ctx context.Context, text string) models.CandidateRecord
}

type fieldExtractor struct {
	recognizer   EntityRecognizer
	skillsWindow int
	logger       *zap.Logger
}

func NewFieldExtractor(recognizer EntityRecognizer, skillsWindow int, logger *zap.Logger) FieldExtractor {
	if recognizer == nil {
		recognizer = NopRecognizer{}
	}
	if skillsWindow <= 0 {
		skillsWindow = DefaultSkillsWindow
	}
	return &fieldExtractor{
		recognizer:   recognizer,
		skillsWindow: skillsWindow,
		logger:       logger,
	}
}

// Extract implements FieldExtractor. FitScore is left at zero.
func (f *fieldExtractor) Extract(ctx context.Context, text string) models.CandidateRecord {
	return models.CandidateRecord{
		Name:     f.extractName(ctx, text),
		Email:    ExtractEmail(text),
		Phone:    ExtractPhone(text),
		Skills:   ExtractSkills(text, f.skillsWindow),
		LinkedIn: ExtractLinkedIn(text),
		GitHub:   ExtractGitHub(text),
	}
}

func (f *fieldExtractor) extractName(ctx context.Context, text string) *string {
	if name := NameFromFirstLine(text); name != nil {
		return name
	}

	entities, err := f.recognizer.Recognize(ctx, text)
	if err != nil {
		f.logger.Warn("entity recognition failed, name left empty", zap.Error(err))
	}
	return FirstPerson(entities)
}

// NameFromFirstLine returns the trimmed first line when it has one to three
// words and is not purely numeric.
func NameFromFirstLine(text string) *string {
	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimSpace(firstLine)

	words := len(strings.Fields(firstLine))
	if words == 0 || words > 3 || isNumeric(firstLine) {
		return nil
	}
	return &firstLine
}

// FirstPerson returns the first PERSON entity.
func FirstPerson(entities []Entity) *string {
	for _, e := range entities {
		if e.Label != LabelPerson {
			continue
		}
		if name := strings.TrimSpace(e.Text); name != "" {
			return &name
		}
	}
	return nil
}

func ExtractEmail(text string) *string {
	return firstMatch(emailPattern, text)
}

func ExtractPhone(text string) *string {
	return firstMatch(phonePattern, text)
}

func ExtractLinkedIn(text string) *string {
	return firstMatch(linkedInPattern, text)
}

func ExtractGitHub(text string) *string {
	return firstMatch(gitHubPattern, text)
}

// ExtractSkills tokenizes the window runes of text that start at the first
// skills marker. The marker itself is part of the window. Nil means no marker.
func ExtractSkills(text string, window int) []string {
	lower := strings.Map(unicode.ToLower, text)

	for _, marker := range skillsMarkers {
		idx := strings.Index(lower, marker)
		if idx == -1 {
			continue
		}

		// strings.Map keeps one rune per rune, so rune offsets line up.
		start := utf8.RuneCountInString(lower[:idx])
		runes := []rune(text)
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}

		tokens := SplitSkills(string(runes[start:end]))
		if len(tokens) == 0 {
			return nil
		}
		return tokens
	}

	return nil
}

func firstMatch(re *regexp.Regexp, text string) *string {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	match := text[loc[0]:loc[1]]
	return &match
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
