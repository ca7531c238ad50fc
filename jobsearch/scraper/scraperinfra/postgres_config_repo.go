package scraperinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/pkg/kernel"
)

type PostgresConfigRepository struct {
	db *sqlx.DB
}

func NewPostgresConfigRepository(db *sqlx.DB) *PostgresConfigRepository {
	return &PostgresConfigRepository{db: db}
}

type configRow struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	Name             string         `db:"name"`
	Keywords         []byte         `db:"keywords"`
	Location         sql.NullString `db:"location"`
	Remote           bool           `db:"remote"`
	SalaryMin        int            `db:"salary_min"`
	SalaryMax        int            `db:"salary_max"`
	JobTypes         []byte         `db:"job_types"`
	Industries       []byte         `db:"industries"`
	ExperienceLevels []byte         `db:"experience_levels"`
	EmailAlerts      bool           `db:"email_alerts"`
	Frequency        string         `db:"frequency"`
	IsActive         bool           `db:"is_active"`
	LastRunAt        *time.Time     `db:"last_run_at"`
	LastError        sql.NullString `db:"last_error"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r *configRow) toDomain() (*scraper.Configuration, error) {
	model := &scraper.Configuration{
		ID:          kernel.ConfigID(r.ID),
		UserID:      kernel.UserID(r.UserID),
		Name:        r.Name,
		Location:    r.Location.String,
		Remote:      r.Remote,
		SalaryMin:   r.SalaryMin,
		SalaryMax:   r.SalaryMax,
		EmailAlerts: r.EmailAlerts,
		Frequency:   scraper.Frequency(r.Frequency),
		IsActive:    r.IsActive,
		LastRunAt:   r.LastRunAt,
		LastError:   r.LastError.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for field, pair := range map[string]struct {
		raw  []byte
		dest *[]string
	}{
		"keywords":          {r.Keywords, &model.Keywords},
		"job_types":         {r.JobTypes, &model.JobTypes},
		"industries":        {r.Industries, &model.Industries},
		"experience_levels": {r.ExperienceLevels, &model.ExperienceLevels},
	} {
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return nil, scraper.ErrInvalidConfig().WithDetail("field", field)
		}
	}
	return model, nil
}

// marshalLists encodes the configuration's string list fields for their
// jsonb columns. Nil slices are stored as empty arrays.
func marshalLists(config *scraper.Configuration) (keywords, jobTypes, industries, levels []byte, err error) {
	encode := func(field string, v []string) ([]byte, error) {
		if v == nil {
			v = []string{}
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, scraper.ErrInvalidConfig().WithDetail("field", field)
		}
		return raw, nil
	}
	if keywords, err = encode("keywords", config.Keywords); err != nil {
		return nil, nil, nil, nil, err
	}
	if jobTypes, err = encode("job_types", config.JobTypes); err != nil {
		return nil, nil, nil, nil, err
	}
	if industries, err = encode("industries", config.Industries); err != nil {
		return nil, nil, nil, nil, err
	}
	if levels, err = encode("experience_levels", config.ExperienceLevels); err != nil {
		return nil, nil, nil, nil, err
	}
	return keywords, jobTypes, industries, levels, nil
}

func (r *PostgresConfigRepository) Create(ctx context.Context, config *scraper.Configuration) error {
	keywords, jobTypes, industries, levels, err := marshalLists(config)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scraper_configurations (
			id, user_id, name, keywords, location, remote,
			salary_min, salary_max, job_types, industries,
			experience_levels, email_alerts, frequency, is_active,
			last_run_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = r.db.ExecContext(ctx, query,
		config.ID.String(), config.UserID.String(), config.Name, keywords,
		nullable(config.Location), config.Remote,
		config.SalaryMin, config.SalaryMax, jobTypes, industries,
		levels, config.EmailAlerts, string(config.Frequency), config.IsActive,
		config.LastRunAt, config.CreatedAt, config.UpdatedAt)
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err).
			WithDetail("config_id", config.ID.String())
	}
	return nil
}

func (r *PostgresConfigRepository) GetByID(ctx context.Context, id kernel.ConfigID) (*scraper.Configuration, error) {
	var row configRow
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM scraper_configurations WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scraper.ErrConfigNotFound().WithDetail("config_id", id.String())
	}
	if err != nil {
		return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	return row.toDomain()
}

func (r *PostgresConfigRepository) ListByUserID(ctx context.Context, userID kernel.UserID) ([]scraper.Configuration, error) {
	var rows []configRow
	query := `
		SELECT * FROM scraper_configurations
		WHERE user_id = $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID.String()); err != nil {
		return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	return configRowsToDomain(rows)
}

func (r *PostgresConfigRepository) ListActive(ctx context.Context) ([]scraper.Configuration, error) {
	var rows []configRow
	query := `SELECT * FROM scraper_configurations WHERE is_active = true`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	return configRowsToDomain(rows)
}

func (r *PostgresConfigRepository) Update(ctx context.Context, config *scraper.Configuration) error {
	keywords, jobTypes, industries, levels, err := marshalLists(config)
	if err != nil {
		return err
	}

	query := `
		UPDATE scraper_configurations SET
			name = $2, keywords = $3, location = $4, remote = $5,
			salary_min = $6, salary_max = $7, job_types = $8,
			industries = $9, experience_levels = $10, email_alerts = $11,
			frequency = $12, is_active = $13, updated_at = $14
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		config.ID.String(), config.Name, keywords, nullable(config.Location),
		config.Remote, config.SalaryMin, config.SalaryMax, jobTypes,
		industries, levels, config.EmailAlerts, string(config.Frequency),
		config.IsActive, time.Now())
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return scraper.ErrConfigNotFound().WithDetail("config_id", config.ID.String())
	}
	return nil
}

func (r *PostgresConfigRepository) TouchLastRun(ctx context.Context, id kernel.ConfigID, at time.Time) error {
	query := `UPDATE scraper_configurations SET last_run_at = $2, last_error = NULL, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id.String(), at)
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return scraper.ErrConfigNotFound().WithDetail("config_id", id.String())
	}
	return nil
}

func (r *PostgresConfigRepository) SetLastError(ctx context.Context, id kernel.ConfigID, message string) error {
	query := `UPDATE scraper_configurations SET last_error = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id.String(), message, time.Now())
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return scraper.ErrConfigNotFound().WithDetail("config_id", id.String())
	}
	return nil
}

func (r *PostgresConfigRepository) Delete(ctx context.Context, id kernel.ConfigID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM scraper_configurations WHERE id = $1`, id.String())
	if err != nil {
		return scraper.ErrRegistry.NewWithCause(scraper.CodeConfigSaveFailed, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return scraper.ErrConfigNotFound().WithDetail("config_id", id.String())
	}
	return nil
}

func configRowsToDomain(rows []configRow) ([]scraper.Configuration, error) {
	items := make([]scraper.Configuration, 0, len(rows))
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
