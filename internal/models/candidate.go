package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotAvailable marks a missing field once a record leaves the process
// (API responses, spreadsheet rows, database columns).
const NotAvailable = "N/A"

const skillsSeparator = ", "

// CandidateRecord holds the fields extracted from one resume. Nil pointers
// and a nil Skills slice mean the field was not found.
type CandidateRecord struct {
	Name     *string
	Email    *string
	Phone    *string
	Skills   []string
	LinkedIn *string
	GitHub   *string
	FitScore float64
}

// HasSkills reports whether a skills section was found.
func (r *CandidateRecord) HasSkills() bool {
	return len(r.Skills) > 0
}

// CandidateRow is the tabular form of a CandidateRecord. Its JSON keys and
// column order follow the exported spreadsheet.
type CandidateRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	Seq        int64     `gorm:"autoIncrement;index" json:"-"`
	BatchID    uuid.UUID `gorm:"type:uuid;index" json:"-"`
	SourceFile string    `gorm:"type:text" json:"-"`
	Name       string    `gorm:"type:text;not null" json:"Name"`
	Email      string    `gorm:"type:text;not null" json:"Email"`
	Phone      string    `gorm:"type:text;not null" json:"Phone"`
	Skills     string    `gorm:"type:text;not null" json:"Skills"`
	LinkedIn   string    `gorm:"column:linkedin;type:text;not null" json:"LinkedIn"`
	GitHub     string    `gorm:"column:github;type:text;not null" json:"GitHub"`
	FitScore   float64   `gorm:"type:decimal(5,2);not null" json:"FitScore"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"-"`
}

func (CandidateRow) TableName() string {
	return "candidate_records"
}

// ToRow converts the record to its boundary form, filling absent fields with
// the "N/A" sentinel.
func (r *CandidateRecord) ToRow() CandidateRow {
	skills := NotAvailable
	if r.HasSkills() {
		skills = strings.Join(r.Skills, skillsSeparator)
	}

	return CandidateRow{
		Name:     orNotAvailable(r.Name),
		Email:    orNotAvailable(r.Email),
		Phone:    orNotAvailable(r.Phone),
		Skills:   skills,
		LinkedIn: orNotAvailable(r.LinkedIn),
		GitHub:   orNotAvailable(r.GitHub),
		FitScore: r.FitScore,
	}
}

// Record converts a stored row back into a CandidateRecord.
func (row *CandidateRow) Record() CandidateRecord {
	var skills []string
	if row.Skills != NotAvailable && row.Skills != "" {
		skills = strings.Split(row.Skills, skillsSeparator)
	}

	return CandidateRecord{
		Name:     fromNotAvailable(row.Name),
		Email:    fromNotAvailable(row.Email),
		Phone:    fromNotAvailable(row.Phone),
		Skills:   skills,
		LinkedIn: fromNotAvailable(row.LinkedIn),
		GitHub:   fromNotAvailable(row.GitHub),
		FitScore: row.FitScore,
	}
}

// Columns returns the spreadsheet header.
func Columns() []string {
	return []string{"Name", "Email", "Phone", "Skills", "LinkedIn", "GitHub", "FitScore", "File"}
}

// Values returns the row cells in Columns order.
func (row *CandidateRow) Values() []interface{} {
	return []interface{}{
		row.Name,
		row.Email,
		row.Phone,
		row.Skills,
		row.LinkedIn,
		row.GitHub,
		row.FitScore,
		row.SourceFile,
	}
}

// RowFromValues is the inverse of Values for cells read back as text.
func RowFromValues(cells []string) (CandidateRow, error) {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	var score float64
	if raw := strings.TrimSpace(get(6)); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return CandidateRow{}, err
		}
		score = parsed
	}

	return CandidateRow{
		Name:       get(0),
		Email:      get(1),
		Phone:      get(2),
		Skills:     get(3),
		LinkedIn:   get(4),
		GitHub:     get(5),
		FitScore:   score,
		SourceFile: get(7),
	}, nil
}

// RoundScore rounds a percentage to two decimals. The exact binary value is
// rounded and exact ties go to the even digit, so 3.125 becomes 3.12.
func RoundScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return math.RoundToEven(v*100) / 100
	}
	return rounded
}

func orNotAvailable(v *string) string {
	if v == nil {
		return NotAvailable
	}
	return *v
}

func fromNotAvailable(v string) *string {
	if v == NotAvailable || v == "" {
		return nil
	}
	return &v
}
