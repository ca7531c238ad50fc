package resumeinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/pkg/kernel"
)

type PostgresResumeRepository struct {
	db *sqlx.DB
}

func NewPostgresResumeRepository(db *sqlx.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

// resumeRow represents a row from the resumes table. Parsed content lives
// in a single JSONB column that stays NULL until parsing runs.
type resumeRow struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	FileName   string         `db:"file_name"`
	FileURL    string         `db:"file_url"`
	FileType   string         `db:"file_type"`
	ParsedData sql.NullString `db:"parsed_data"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *resumeRow) toDomain() (*resume.Resume, error) {
	model := &resume.Resume{
		ID:        kernel.ResumeID(r.ID),
		UserID:    kernel.UserID(r.UserID),
		FileName:  r.FileName,
		FileURL:   r.FileURL,
		FileType:  r.FileType,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ParsedData.Valid && r.ParsedData.String != "" {
		var parsed resume.ParsedData
		if err := json.Unmarshal([]byte(r.ParsedData.String), &parsed); err != nil {
			return nil, resume.ErrInvalidResumeData().
				WithDetail("field", "parsed_data").
				WithDetail("error", err.Error())
		}
		model.ParsedData = &parsed
	}
	return model, nil
}

func (r *PostgresResumeRepository) Create(ctx context.Context, resumeModel *resume.Resume) error {
	query := `
		INSERT INTO resumes (
			id, user_id, file_name, file_url, file_type,
			parsed_data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var parsedData any
	if resumeModel.ParsedData != nil {
		raw, err := json.Marshal(resumeModel.ParsedData)
		if err != nil {
			return resume.ErrInvalidResumeData().
				WithDetail("field", "parsed_data").
				WithDetail("error", err.Error())
		}
		parsedData = string(raw)
	}

	_, err := r.db.ExecContext(ctx, query,
		resumeModel.ID.String(),
		resumeModel.UserID.String(),
		resumeModel.FileName,
		resumeModel.FileURL,
		resumeModel.FileType,
		parsedData,
		resumeModel.CreatedAt,
		resumeModel.UpdatedAt,
	)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err).
			WithDetail("resume_id", resumeModel.ID.String())
	}
	return nil
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	var row resumeRow
	query := `SELECT * FROM resumes WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resume.ErrResumeNotFound().WithDetail("resume_id", id.String())
	}
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err).
			WithDetail("resume_id", id.String())
	}
	return row.toDomain()
}

func (r *PostgresResumeRepository) GetByUserID(ctx context.Context, userID kernel.UserID) (*resume.Resume, error) {
	var row resumeRow
	query := `SELECT * FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`

	err := r.db.GetContext(ctx, &row, query, userID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resume.ErrResumeNotFound().WithDetail("user_id", userID.String())
	}
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err).
			WithDetail("user_id", userID.String())
	}
	return row.toDomain()
}

func (r *PostgresResumeRepository) ListByUserID(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	pagination = pagination.Normalize()

	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID.String()); err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err)
	}

	var rows []resumeRow
	query := `
		SELECT * FROM resumes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query,
		userID.String(), pagination.Limit(), pagination.Offset()); err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err)
	}

	items := make([]resume.Resume, 0, len(rows))
	for i := range rows {
		model, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *model)
	}

	result := kernel.NewPaginated(items, pagination, total)
	return &result, nil
}

func (r *PostgresResumeRepository) UpdateParsedData(ctx context.Context, id kernel.ResumeID, parsed *resume.ParsedData) error {
	raw, err := json.Marshal(parsed)
	if err != nil {
		return resume.ErrInvalidResumeData().
			WithDetail("field", "parsed_data").
			WithDetail("error", err.Error())
	}

	query := `UPDATE resumes SET parsed_data = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id.String(), string(raw), time.Now())
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err).
			WithDetail("resume_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return resume.ErrResumeNotFound().WithDetail("resume_id", id.String())
	}
	return nil
}

func (r *PostgresResumeRepository) Delete(ctx context.Context, id kernel.ResumeID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id.String())
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeResumeSaveFailed, err).
			WithDetail("resume_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return resume.ErrResumeNotFound().WithDetail("resume_id", id.String())
	}
	return nil
}
