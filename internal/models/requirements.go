package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JobRequirements is the required-skill list for one batch.
type JobRequirements struct {
	Skills []string
}

type jobRequirementsPayload struct {
	Skills json.RawMessage `json:"skills"`
}

// ParseJobRequirements decodes {"skills": [...]} or {"skills": "a, b"}.
// Anything else fails with ErrMalformedJobRequirements. A missing skills
// field yields an empty list.
func ParseJobRequirements(raw []byte) (JobRequirements, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return JobRequirements{}, fmt.Errorf("%w: empty payload", ErrMalformedJobRequirements)
	}
	if raw[0] != '{' {
		return JobRequirements{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedJobRequirements)
	}

	var payload jobRequirementsPayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&payload); err != nil {
		return JobRequirements{}, fmt.Errorf("%w: %v", ErrMalformedJobRequirements, err)
	}
	if dec.More() {
		return JobRequirements{}, fmt.Errorf("%w: trailing data after object", ErrMalformedJobRequirements)
	}

	skills := bytes.TrimSpace(payload.Skills)
	if len(skills) == 0 || bytes.Equal(skills, []byte("null")) {
		return JobRequirements{}, nil
	}

	switch skills[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(skills, &list); err != nil {
			return JobRequirements{}, fmt.Errorf("%w: skills must be a list of strings", ErrMalformedJobRequirements)
		}
		return JobRequirements{Skills: list}, nil
	case '"':
		var joined string
		if err := json.Unmarshal(skills, &joined); err != nil {
			return JobRequirements{}, fmt.Errorf("%w: %v", ErrMalformedJobRequirements, err)
		}
		return JobRequirements{Skills: strings.Split(joined, ",")}, nil
	default:
		return JobRequirements{}, fmt.Errorf("%w: skills must be a string or a list of strings", ErrMalformedJobRequirements)
	}
}
