package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

// CandidateStore is the append-only tabular store of extracted candidates.
type CandidateStore interface {
	Append(ctx context.Context, row *models.CandidateRow) error
	ReadAll(ctx context.Context) ([]models.CandidateRow, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateStore {
	return &candidateRepository{db: db}
}

// Append implements CandidateStore.
func (r *candidateRepository) Append(ctx context.Context, row *models.CandidateRow) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create candidate record: %w", err)
	}

	return nil
}

// ReadAll implements CandidateStore. Rows come back in insertion order.
func (r *candidateRepository) ReadAll(ctx context.Context) ([]models.CandidateRow, error) {
	var rows []models.CandidateRow
	if err := r.db.WithContext(ctx).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidate records: %w", err)
	}

	return rows, nil
}
