package matchinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jobradar/radar/jobsearch/match"
	"github.com/jobradar/radar/pkg/kernel"
)

type PostgresMatchRepository struct {
	db *sqlx.DB
}

func NewPostgresMatchRepository(db *sqlx.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

type matchRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ResumeID      string    `db:"resume_id"`
	PostingID     string    `db:"posting_id"`
	Score         int       `db:"score"`
	Category      string    `db:"category"`
	MatchedSkills []byte    `db:"matched_skills"`
	AIEnhanced    bool      `db:"ai_enhanced"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *matchRow) toDomain() (*match.JobMatch, error) {
	model := &match.JobMatch{
		ID:         kernel.MatchID(r.ID),
		UserID:     kernel.UserID(r.UserID),
		ResumeID:   kernel.ResumeID(r.ResumeID),
		PostingID:  kernel.PostingID(r.PostingID),
		Score:      r.Score,
		Category:   match.Category(r.Category),
		AIEnhanced: r.AIEnhanced,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if err := json.Unmarshal(r.MatchedSkills, &model.MatchedSkills); err != nil {
		return nil, match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err).
			WithDetail("field", "matched_skills")
	}
	return model, nil
}

// ReplaceForResume swaps the user's match set inside one transaction so a
// concurrent reader sees either the old rows or the new ones, never a mix.
func (r *PostgresMatchRepository) ReplaceForResume(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID, matches []match.JobMatch) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.ErrRegistry.NewWithCause(match.CodeRefreshFailed, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM job_matches WHERE user_id = $1 AND resume_id = $2`,
		userID.String(), resumeID.String())
	if err != nil {
		return match.ErrRegistry.NewWithCause(match.CodeRefreshFailed, err)
	}

	query := `
		INSERT INTO job_matches (
			id, user_id, resume_id, posting_id,
			score, category, matched_skills, ai_enhanced,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i := range matches {
		m := &matches[i]
		skills, err := json.Marshal(m.MatchedSkills)
		if err != nil {
			return match.ErrRegistry.NewWithCause(match.CodeRefreshFailed, err)
		}
		_, err = tx.ExecContext(ctx, query,
			m.ID.String(), m.UserID.String(), m.ResumeID.String(), m.PostingID.String(),
			m.Score, string(m.Category), skills, m.AIEnhanced,
			m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return match.ErrRegistry.NewWithCause(match.CodeRefreshFailed, err).
				WithDetail("posting_id", m.PostingID.String())
		}
	}

	if err := tx.Commit(); err != nil {
		return match.ErrRegistry.NewWithCause(match.CodeRefreshFailed, err)
	}
	return nil
}

func (r *PostgresMatchRepository) GetByID(ctx context.Context, id kernel.MatchID) (*match.JobMatch, error) {
	var row matchRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM job_matches WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, match.ErrMatchNotFound().WithDetail("match_id", id.String())
	}
	if err != nil {
		return nil, match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err)
	}
	return row.toDomain()
}

func (r *PostgresMatchRepository) ListByUser(ctx context.Context, userID kernel.UserID, minScore int, pagination kernel.PaginationOptions) (*kernel.Paginated[match.JobMatch], error) {
	pagination = pagination.Normalize()

	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM job_matches WHERE user_id = $1 AND score >= $2`,
		userID.String(), minScore); err != nil {
		return nil, match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err)
	}

	var rows []matchRow
	query := `
		SELECT * FROM job_matches
		WHERE user_id = $1 AND score >= $2
		ORDER BY score DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &rows, query,
		userID.String(), minScore, pagination.Limit(), pagination.Offset()); err != nil {
		return nil, match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err)
	}

	items := make([]match.JobMatch, 0, len(rows))
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

func (r *PostgresMatchRepository) ListForEnhancement(ctx context.Context, userID kernel.UserID, minScore int) ([]match.JobMatch, error) {
	var rows []matchRow
	query := `
		SELECT * FROM job_matches
		WHERE user_id = $1 AND score >= $2
		ORDER BY score DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID.String(), minScore); err != nil {
		return nil, match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err)
	}

	items := make([]match.JobMatch, 0, len(rows))
	for i := range rows {
		model, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *model)
	}
	return items, nil
}

func (r *PostgresMatchRepository) UpdateScore(ctx context.Context, id kernel.MatchID, score int, aiEnhanced bool) error {
	query := `
		UPDATE job_matches
		SET score = $2, category = $3, ai_enhanced = $4, updated_at = $5
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		id.String(), score, string(match.CategoryForScore(score)), aiEnhanced, time.Now())
	if err != nil {
		return match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err).
			WithDetail("match_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return match.ErrMatchNotFound().WithDetail("match_id", id.String())
	}
	return nil
}

func (r *PostgresMatchRepository) Delete(ctx context.Context, id kernel.MatchID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_matches WHERE id = $1`, id.String())
	if err != nil {
		return match.ErrRegistry.NewWithCause(match.CodeMatchUpdateFailed, err).
			WithDetail("match_id", id.String())
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return match.ErrMatchNotFound().WithDetail("match_id", id.String())
	}
	return nil
}
