package models

import "github.com/google/uuid"

// DocumentResult is the outcome for one document of a batch. Exactly one of
// Record and Err is set, except for persistence failures where the record
// was extracted but could not be stored.
type DocumentResult struct {
	Filename      string
	Record        *CandidateRecord
	MatchedSkills []string
	Err           error
}

func (r *DocumentResult) Succeeded() bool {
	return r.Err == nil && r.Record != nil
}

type BatchResult struct {
	BatchID uuid.UUID
	Results []DocumentResult
}

func (b *BatchResult) Processed() int {
	n := 0
	for i := range b.Results {
		if b.Results[i].Succeeded() {
			n++
		}
	}
	return n
}

func (b *BatchResult) Failed() int {
	return len(b.Results) - b.Processed()
}

type DocumentOutcome struct {
	Filename      string        `json:"filename"`
	Status        string        `json:"status"`
	Record        *CandidateRow `json:"record,omitempty"`
	MatchedSkills []string      `json:"matched_skills,omitempty"`
	Error         string        `json:"error,omitempty"`
	ErrorKind     string        `json:"error_kind,omitempty"`
}

const (
	OutcomeProcessed = "processed"
	OutcomeFailed    = "failed"
)

type UploadResponse struct {
	Message   string            `json:"message"`
	BatchID   string            `json:"batch_id"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Data      []DocumentOutcome `json:"data"`
}

// Outcomes renders a batch for API and CLI output.
func (b *BatchResult) Outcomes() []DocumentOutcome {
	outcomes := make([]DocumentOutcome, 0, len(b.Results))
	for i := range b.Results {
		res := &b.Results[i]
		outcome := DocumentOutcome{
			Filename:      res.Filename,
			Status:        OutcomeProcessed,
			MatchedSkills: res.MatchedSkills,
		}
		if res.Record != nil {
			row := res.Record.ToRow()
			outcome.Record = &row
		}
		if res.Err != nil {
			outcome.Status = OutcomeFailed
			outcome.Error = res.Err.Error()
			outcome.ErrorKind = ErrorKind(res.Err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
