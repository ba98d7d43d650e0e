package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobly-be/internal/api/domain"
	"github.com/cuongbtq/jobly-be/internal/api/model"
	"github.com/cuongbtq/jobly-be/internal/api/storage/sqlbuild"
)

// Querier is the subset of *sqlx.DB the storage needs
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// jobUpdateFields maps update fields to columns. Job payloads already use column names.
var jobUpdateFields = sqlbuild.FieldMap{}

const jobColumns = `id, title, salary, equity, company_handle`

type Storage struct {
	db     Querier
	logger *slog.Logger
}

func NewStorage(db Querier, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// CreateJob inserts a job and returns it with its generated id.
// Constraint violations come back from the driver unchanged.
func (s *Storage) CreateJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	query := `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + jobColumns

	var created model.Job
	err := s.db.GetContext(
		ctx,
		&created,
		query,
		job.Title,
		job.Salary,
		job.Equity,
		job.CompanyHandle,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return &created, nil
}

type JobFilter struct {
	MinSalary     *int
	HasEquity     *bool
	TitleContains *string
}

// buildJobFilter renders the WHERE clause of ListJobs. Placeholders follow
// the order predicates are applied, not a fixed position per filter.
func buildJobFilter(filter JobFilter) (string, []any) {
	params := sqlbuild.NewParams()
	where := sqlbuild.NewWhere(params)

	if filter.MinSalary != nil {
		where.Compare("j.salary", ">=", *filter.MinSalary)
	}

	if filter.HasEquity != nil && *filter.HasEquity {
		where.Literal("j.equity > 0")
	}

	if filter.TitleContains != nil {
		where.Compare("j.title", "ILIKE", "%"+*filter.TitleContains+"%")
	}

	return where.String(), params.Args()
}

// ListJobs returns jobs matching every filter that is set, ordered by title
func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.JobListing, error) {
	where, args := buildJobFilter(filter)

	query := `
		SELECT
			j.id, j.title, j.salary, j.equity,
			j.company_handle, c.name AS company_name
		FROM jobs j
		LEFT JOIN companies AS c ON c.handle = j.company_handle` +
		where + `
		ORDER BY j.title`

	s.logger.Debug("Listing jobs",
		slog.String("where", where),
		slog.Int("args", len(args)),
	)

	jobs := []model.JobListing{}
	err := s.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// GetJob returns a job with its company nested. A job whose company is gone
// is returned without one.
func (s *Storage) GetJob(ctx context.Context, id int) (*model.JobDetail, error) {
	var job model.Job
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE id = $1
	`

	err := s.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewJobNotFound(id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	company, err := s.getCompany(ctx, job.CompanyHandle)
	if err != nil {
		return nil, err
	}

	return &model.JobDetail{
		ID:      job.ID,
		Title:   job.Title,
		Salary:  job.Salary,
		Equity:  job.Equity,
		Company: company,
	}, nil
}

func (s *Storage) getCompany(ctx context.Context, handle string) (*model.Company, error) {
	var company model.Company
	query := `
		SELECT handle, name, description, num_employees, logo_url
		FROM companies
		WHERE handle = $1
	`

	err := s.db.GetContext(ctx, &company, query, handle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("Job company not found",
				slog.String("company_handle", handle),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// UpdateJob applies a partial update and returns the updated job.
// Any column may be set, including company_handle; callers restrict the fields.
func (s *Storage) UpdateJob(ctx context.Context, id int, data sqlbuild.Payload) (*model.Job, error) {
	set, err := sqlbuild.PartialUpdate(data, jobUpdateFields)
	if err != nil {
		return nil, err
	}

	params := set.Params()
	idPlaceholder := params.Add(id)

	query := `
		UPDATE jobs
		SET ` + set.Columns + `
		WHERE id = ` + idPlaceholder + `
		RETURNING ` + jobColumns

	var job model.Job
	err = s.db.GetContext(ctx, &job, query, params.Args()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewJobNotFound(id)
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return &job, nil
}

// DeleteJob removes a job and returns the deleted id
func (s *Storage) DeleteJob(ctx context.Context, id int) (int, error) {
	query := `
		DELETE FROM jobs
		WHERE id = $1
		RETURNING id
	`

	var deleted int
	err := s.db.GetContext(ctx, &deleted, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NewJobNotFound(id)
		}
		return 0, fmt.Errorf("failed to delete job: %w", err)
	}

	return deleted, nil
}
