package models

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{filename: "resume.pdf", want: FormatPDF},
		{filename: "RESUME.PDF", want: FormatPDF},
		{filename: "cv.docx", want: FormatDocx},
		{filename: "scan.JPEG", want: FormatImage},
		{filename: "scan.bmp", want: FormatImage},
		{filename: "scan.gif", want: FormatImage},
		{filename: "notes.txt", wantErr: true},
		{filename: "filepng", wantErr: true},
		{filename: "legacy.doc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				var unsupported *UnsupportedFormatError
				if !errors.As(err, &unsupported) {
					t.Fatalf("expected UnsupportedFormatError, got %v", err)
				}
				if unsupported.Filename != tt.filename {
					t.Fatalf("expected filename %q, got %q", tt.filename, unsupported.Filename)
				}
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatal("expected error to match ErrUnsupportedFormat")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: &UnsupportedFormatError{Filename: "a.txt"}, want: ErrorKindUnsupportedFormat},
		{err: fmt.Errorf("wrap: %w", ErrFileTooLarge), want: ErrorKindFileTooLarge},
		{err: fmt.Errorf("%w: db down", ErrPersistence), want: ErrorKindPersistence},
		{err: fmt.Errorf("%w: bad json", ErrMalformedJobRequirements), want: ErrorKindMalformedRequirements},
		{err: errors.New("boom"), want: ErrorKindProcessing},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCandidateRowRoundTrip(t *testing.T) {
	t.Parallel()

	records := []CandidateRecord{
		{
			Name:     strPtr("Jane Doe"),
			Email:    strPtr("jane.doe@example.com"),
			Phone:    strPtr("+1 5551234567"),
			Skills:   []string{"skills", "python", "go", "sql"},
			LinkedIn: strPtr("linkedin.com/in/jane-doe"),
			GitHub:   strPtr("github.com/janedoe"),
			FitScore: 66.67,
		},
		{FitScore: 0},
	}

	for _, rec := range records {
		row := rec.ToRow()
		back := row.Record()
		if !reflect.DeepEqual(rec, back) {
			t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", rec, back)
		}
	}
}

func TestToRowUsesSentinel(t *testing.T) {
	t.Parallel()

	row := (&CandidateRecord{Name: strPtr("John Smith")}).ToRow()
	for field, value := range map[string]string{
		"Email": row.Email, "Phone": row.Phone, "Skills": row.Skills,
		"LinkedIn": row.LinkedIn, "GitHub": row.GitHub,
	} {
		if value != NotAvailable {
			t.Fatalf("expected %s to be %q, got %q", field, NotAvailable, value)
		}
	}
	if row.Name != "John Smith" {
		t.Fatalf("unexpected name %q", row.Name)
	}
}

func TestRowFromValues(t *testing.T) {
	t.Parallel()

	original := CandidateRow{
		Name: "Jane", Email: "N/A", Phone: "5551234567", Skills: "skills, go",
		LinkedIn: "N/A", GitHub: "github.com/jane", FitScore: 50, SourceFile: "jane.pdf",
	}

	cells := make([]string, 0, len(original.Values()))
	for _, v := range original.Values() {
		cells = append(cells, fmt.Sprint(v))
	}

	got, err := RowFromValues(cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != original {
		t.Fatalf("expected %+v, got %+v", original, got)
	}

	if _, err := RowFromValues([]string{"a", "b", "c", "d", "e", "f", "not-a-number"}); err == nil {
		t.Fatal("expected error for non-numeric score")
	}
}

func TestRoundScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "two thirds", in: 100.0 * 2 / 3, want: 66.67},
		{name: "one third", in: 100.0 / 3, want: 33.33},
		{name: "tie rounds to even down", in: 100.0 / 32, want: 3.12},
		{name: "tie rounds to even up", in: 300.0 / 32, want: 9.38},
		{name: "five of thirty two", in: 500.0 / 32, want: 15.62},
		{name: "binary value below tie", in: 2.675, want: 2.67},
		{name: "zero", in: 0, want: 0},
		{name: "full", in: 100, want: 100},
	}

	for _, tt := range tests {
		if got := RoundScore(tt.in); got != tt.want {
			t.Errorf("%s: RoundScore(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestParseJobRequirements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "list", raw: `{"skills": ["Python", "Go"]}`, want: []string{"Python", "Go"}},
		{name: "comma string", raw: `{"skills": "python, go,sql"}`, want: []string{"python", " go", "sql"}},
		{name: "extra fields allowed", raw: `{"title": "Backend", "skills": ["go"]}`, want: []string{"go"}},
		{name: "missing skills", raw: `{"title": "Backend"}`, want: nil},
		{name: "null skills", raw: `{"skills": null}`, want: nil},
		{name: "empty payload", raw: "  ", wantErr: true},
		{name: "not json", raw: `{'skills': ['go']}`, wantErr: true},
		{name: "expression", raw: `__import__('os').system('id')`, wantErr: true},
		{name: "top-level list", raw: `["go"]`, wantErr: true},
		{name: "numeric skills", raw: `{"skills": 3}`, wantErr: true},
		{name: "mixed list", raw: `{"skills": ["go", 1]}`, wantErr: true},
		{name: "trailing data", raw: `{"skills": []} {"skills": []}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseJobRequirements([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedJobRequirements) {
					t.Fatalf("expected ErrMalformedJobRequirements, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Skills, tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, got.Skills)
			}
		})
	}
}

func TestBatchOutcomes(t *testing.T) {
	t.Parallel()

	batch := &BatchResult{Results: []DocumentResult{
		{Filename: "a.pdf", Record: &CandidateRecord{Name: strPtr("A"), FitScore: 50}, MatchedSkills: []string{"go"}},
		{Filename: "b.txt", Err: &UnsupportedFormatError{Filename: "b.txt"}},
	}}

	if batch.Processed() != 1 || batch.Failed() != 1 {
		t.Fatalf("unexpected counts: processed=%d failed=%d", batch.Processed(), batch.Failed())
	}

	outcomes := batch.Outcomes()
	if outcomes[0].Status != OutcomeProcessed || outcomes[0].Record == nil || outcomes[0].Record.FitScore != 50 {
		t.Fatalf("unexpected first outcome: %+v", outcomes[0])
	}
	if outcomes[1].Status != OutcomeFailed || outcomes[1].ErrorKind != ErrorKindUnsupportedFormat {
		t.Fatalf("unexpected second outcome: %+v", outcomes[1])
	}
	if outcomes[1].Error != "unsupported file type: b.txt" {
		t.Fatalf("unexpected error message %q", outcomes[1].Error)
	}
}
