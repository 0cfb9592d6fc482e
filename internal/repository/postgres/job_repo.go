package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobSelect = `
		SELECT j.id, j.company_id, j.title, j.slug, j.description, j.requirements,
		       j.salary, j.work_mode, j.location, j.featured_until, j.created_at, j.updated_at,
		       COALESCE(u.name, '') AS company_name
		FROM jobs j
		JOIN company_profiles cp ON cp.id = j.company_id
		JOIN users u ON u.id = cp.user_id`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Slug, &j.Description, &j.Requirements,
		&j.Salary, &j.WorkMode, &j.Location, &j.FeaturedUntil, &j.CreatedAt, &j.UpdatedAt,
		&j.CompanyName,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	defer rows.Close()
	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (company_id, title, slug, description, requirements, salary, work_mode, location, featured_until, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRow(ctx, query,
		job.CompanyID, job.Title, job.Slug, job.Description, job.Requirements, job.Salary,
		job.WorkMode, job.Location, job.FeaturedUntil, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	return scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
}

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListPublic pages the board: postings still featured first, newest first within each group.
func (r *jobRepo) ListPublic(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	var conditions []string
	var args []interface{}

	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
		conditions = append(conditions, fmt.Sprintf(`j.title ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.WorkMode != "" {
		args = append(args, filter.WorkMode)
		conditions = append(conditions, fmt.Sprintf("j.work_mode = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs j`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	pageArgs := append(args, filter.Limit, offset)
	query := jobSelect + where + fmt.Sprintf(`
		ORDER BY (j.featured_until IS NOT NULL AND j.featured_until > NOW()) DESC, j.created_at DESC, j.id DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.company_id = $1 ORDER BY j.created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// CountCreatedBetween counts postings with created_at in [from, to], both ends inclusive.
func (r *jobRepo) CountCreatedBetween(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE company_id = $1 AND created_at >= $2 AND created_at <= $3`,
		companyID, from, to,
	).Scan(&count)
	return count, err
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE jobs
         SET title = $2, slug = $3, description = $4, requirements = $5, salary = $6,
             work_mode = $7, location = $8, updated_at = $9
         WHERE id = $1`,
		job.ID, job.Title, job.Slug, job.Description, job.Requirements, job.Salary,
		job.WorkMode, job.Location, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
