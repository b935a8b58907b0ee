package services

import (
	"sort"
	"strings"
	"unicode"

	"alfredoptarigan/resume-screener/internal/models"
)

type SkillMatcher interface {
	Score(required, candidate []string) float64
	Match(required, candidate []string) MatchResult
}

type MatchResult struct {
	Score   float64
	Matched []string
	Missing []string
}

type skillMatcher struct{}

func NewSkillMatcher() SkillMatcher {
	return &skillMatcher{}
}

// Score implements SkillMatcher.
func (m *skillMatcher) Score(required, candidate []string) float64 {
	return m.Match(required, candidate).Score
}

// Match implements SkillMatcher. Required skills are only trimmed and
// lowercased; candidate tokens are re-split on the skill delimiters first.
// Matching is exact token equality.
func (m *skillMatcher) Match(required, candidate []string) MatchResult {
	requiredSet := make(map[string]struct{}, len(required))
	for _, skill := range required {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			requiredSet[skill] = struct{}{}
		}
	}

	candidateSet := NormalizeSkills(candidate)

	result := MatchResult{}
	for skill := range requiredSet {
		if _, ok := candidateSet[skill]; ok {
			result.Matched = append(result.Matched, skill)
		} else {
			result.Missing = append(result.Missing, skill)
		}
	}
	sort.Strings(result.Matched)
	sort.Strings(result.Missing)

	if len(requiredSet) == 0 {
		return result
	}

	result.Score = models.RoundScore(100 * float64(len(result.Matched)) / float64(len(requiredSet)))
	return result
}

// NormalizeSkills builds the skill set of a token list.
func NormalizeSkills(tokens []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokens {
		for _, skill := range SplitSkills(token) {
			set[skill] = struct{}{}
		}
	}
	return set
}

// SplitSkills lowercases text and splits it on commas, colons, semicolons
// and whitespace, dropping empty tokens. Order is kept.
func SplitSkills(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isSkillDelimiter)
}

func isSkillDelimiter(r rune) bool {
	switch r {
	case ',', ':', ';':
		return true
	}
	return unicode.IsSpace(r)
}
