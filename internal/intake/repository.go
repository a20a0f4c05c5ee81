package intake

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/common/logger"
	"social-support/internal/models"
)

// Repository stores submitted applications.
type Repository interface {
	Insert(ctx context.Context, rec *models.ApplicationRecord) error
}

const uniqueViolation = "23505"

// PostgresRepository writes to the social_support_applications table and
// an audit_log row per submission.
type PostgresRepository struct {
	db  *sql.DB
	log logger.Logger
}

func NewPostgresRepository(db *sql.DB, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.ApplicationRecord) error {
	personal, err := json.Marshal(rec.PersonalInfo)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal personal info: %w", err))
	}
	family, err := json.Marshal(rec.FamilyFinancial)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal family financial: %w", err))
	}
	situation, err := json.Marshal(rec.SituationDescriptions)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal situation descriptions: %w", err))
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO social_support_applications (
			id, reference_number, national_id, email, language,
			personal_info, family_financial, situation_descriptions,
			status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID,
		rec.ReferenceNumber,
		rec.NationalID,
		rec.Email,
		rec.Language,
		personal,
		family,
		situation,
		rec.Status,
		rec.SubmittedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateApplicationError(rec.ReferenceNumber)
		}
		return apperrors.NewDatabaseInsertFailedError(err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"referenceNumber": rec.ReferenceNumber,
		"language":        rec.Language,
	})
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_submitted",
		"social_support_application",
		rec.ID,
		details,
		rec.SubmittedAt,
	)
	if err != nil {
		r.log.Warn("audit log insert failed", map[string]interface{}{
			"error":           err,
			"referenceNumber": rec.ReferenceNumber,
		})
	}
	return nil
}
