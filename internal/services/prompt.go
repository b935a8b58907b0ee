package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildEntityPrompt asks for the named entities of a resume excerpt.
func (pb *PromptBuilder) BuildEntityPrompt(text string) string {
	return fmt.Sprintf(`You are a named-entity recognizer. Label the named entities that appear in the text below.

Use only these labels:
- PERSON: names of people
- ORG: companies, universities and other organizations
- GPE: countries, cities and states
- DATE: absolute or relative dates

Rules:
- Copy each entity exactly as it appears in the text.
- List entities in the order they first appear.
- Do not invent entities that are not in the text.

Return only a JSON array in this format:
[{"text": "<entity text>", "label": "<LABEL>"}]

Return [] when there are no entities.

TEXT:
%s`, text)
}
