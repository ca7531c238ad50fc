package postinginfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jobradar/radar/jobsearch/posting"
	"github.com/jobradar/radar/pkg/kernel"
	"github.com/jobradar/radar/pkg/logx"
)

type PostgresPostingRepository struct {
	db *sqlx.DB
}

func NewPostgresPostingRepository(db *sqlx.DB) *PostgresPostingRepository {
	return &PostgresPostingRepository{db: db}
}

type postingRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Company        string         `db:"company"`
	Location       sql.NullString `db:"location"`
	URL            sql.NullString `db:"url"`
	Salary         sql.NullString `db:"salary"`
	Source         string         `db:"source"`
	Description    string         `db:"description"`
	SkillsRequired []byte         `db:"skills_required"`
	Requirements   []byte         `db:"requirements"`
	PostedAt       time.Time      `db:"posted_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r *postingRow) toDomain() (*posting.JobPosting, error) {
	model := &posting.JobPosting{
		ID:          kernel.PostingID(r.ID),
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location.String,
		URL:         r.URL.String,
		Salary:      r.Salary.String,
		Source:      r.Source,
		Description: r.Description,
		PostedAt:    r.PostedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if err := json.Unmarshal(r.SkillsRequired, &model.SkillsRequired); err != nil {
		return nil, posting.ErrInvalidPosting().WithDetail("field", "skills_required")
	}
	if err := json.Unmarshal(r.Requirements, &model.Requirements); err != nil {
		return nil, posting.ErrInvalidPosting().WithDetail("field", "requirements")
	}
	return model, nil
}

// SaveAll writes postings one by one with update-else-insert dedup. A row
// error is logged, counted as skipped, and never aborts the batch; the
// caller's saved count reflects only successful writes.
func (r *PostgresPostingRepository) SaveAll(ctx context.Context, postings []posting.JobPosting) (*posting.SaveReport, error) {
	report := &posting.SaveReport{}
	for i := range postings {
		if err := r.saveOne(ctx, &postings[i]); err != nil {
			logx.Warnf("posting save skipped (%s at %s): %v",
				postings[i].Title, postings[i].Company, err)
			report.Skipped++
			continue
		}
		report.Saved++
	}
	return report, nil
}

func (r *PostgresPostingRepository) saveOne(ctx context.Context, p *posting.JobPosting) error {
	skills, err := json.Marshal(p.SkillsRequired)
	if err != nil {
		return err
	}
	requirements, err := json.Marshal(p.Requirements)
	if err != nil {
		return err
	}

	existingID, err := r.findExistingID(ctx, p)
	if err != nil {
		return err
	}

	now := time.Now()
	if existingID != "" {
		query := `
			UPDATE job_postings SET
				title = $2, company = $3, location = $4, url = $5,
				salary = $6, source = $7, description = $8,
				skills_required = $9, requirements = $10, updated_at = $11
			WHERE id = $1`
		_, err = r.db.ExecContext(ctx, query,
			existingID, p.Title, p.Company,
			nullable(p.Location), nullable(p.URL), nullable(p.Salary),
			p.Source, p.Description, skills, requirements, now)
		if err == nil {
			p.ID = kernel.PostingID(existingID)
		}
		return err
	}

	if p.ID.IsEmpty() {
		p.ID = kernel.NewPostingID(uuid.New().String())
	}
	query := `
		INSERT INTO job_postings (
			id, title, company, location, url, salary, source,
			description, skills_required, requirements,
			posted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID.String(), p.Title, p.Company,
		nullable(p.Location), nullable(p.URL), nullable(p.Salary),
		p.Source, p.Description, skills, requirements,
		p.PostedAt, now, now)

	// A concurrent writer can land the same URL between the lookup and
	// the insert; retry once as an update.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if existingID, lookupErr := r.findExistingID(ctx, p); lookupErr == nil && existingID != "" {
			p.ID = kernel.PostingID(existingID)
			return r.saveOne(ctx, p)
		}
	}
	return err
}

// findExistingID resolves the dedup key: URL first, title+company second.
func (r *PostgresPostingRepository) findExistingID(ctx context.Context, p *posting.JobPosting) (string, error) {
	var id string
	var err error
	if p.URL != "" {
		err = r.db.GetContext(ctx, &id,
			`SELECT id FROM job_postings WHERE url = $1`, p.URL)
	} else {
		err = r.db.GetContext(ctx, &id,
			`SELECT id FROM job_postings WHERE title = $1 AND company = $2`,
			p.Title, p.Company)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (r *PostgresPostingRepository) GetByID(ctx context.Context, id kernel.PostingID) (*posting.JobPosting, error) {
	var row postingRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM job_postings WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posting.ErrPostingNotFound().WithDetail("posting_id", id.String())
	}
	if err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodePostingSaveFailed, err)
	}
	return row.toDomain()
}

func (r *PostgresPostingRepository) ListAll(ctx context.Context) ([]posting.JobPosting, error) {
	var rows []postingRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM job_postings ORDER BY created_at DESC`); err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodePostingSaveFailed, err)
	}
	return rowsToDomain(rows)
}

func (r *PostgresPostingRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[posting.JobPosting], error) {
	pagination = pagination.Normalize()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM job_postings`); err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodePostingSaveFailed, err)
	}

	var rows []postingRow
	query := `SELECT * FROM job_postings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, pagination.Limit(), pagination.Offset()); err != nil {
		return nil, posting.ErrRegistry.NewWithCause(posting.CodePostingSaveFailed, err)
	}

	items, err := rowsToDomain(rows)
	if err != nil {
		return nil, err
	}
	result := kernel.NewPaginated(items, pagination, total)
	return &result, nil
}

func rowsToDomain(rows []postingRow) ([]posting.JobPosting, error) {
	items := make([]posting.JobPosting, 0, len(rows))
	for i := range rows {
		model, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *model)
	}
	return items, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
