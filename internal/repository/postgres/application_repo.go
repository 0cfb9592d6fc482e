package postgres

import (
	"context"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create relies on uq_applications_job_candidate to reject a second application.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (job_id, candidate_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		app.JobID, app.CandidateID, app.Status, app.CreatedAt, app.UpdatedAt,
	).Scan(&app.ID)
	if err != nil {
		if isUniqueViolation(err, "uq_applications_job_candidate") {
			return apperror.Conflict("You have already applied to this job")
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	var app domain.Application
	err := r.db.QueryRow(ctx,
		`SELECT id, job_id, candidate_id, status, created_at, updated_at FROM applications WHERE id = $1`,
		id,
	).Scan(&app.ID, &app.JobID, &app.CandidateID, &app.Status, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.CandidateApplication, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.status, a.created_at, a.updated_at,
		       j.title, j.location, u.name
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN company_profiles cp ON cp.id = j.company_id
		JOIN users u ON u.id = cp.user_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.CandidateApplication{}
	for rows.Next() {
		var a domain.CandidateApplication
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.JobTitle, &a.JobLocation, &a.CompanyName,
		); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Applicant, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.status, a.created_at, a.updated_at,
		       u.name, u.email, cp.summary, cp.resume_url
		FROM applications a
		JOIN candidate_profiles cp ON cp.user_id = a.candidate_id
		JOIN users u ON u.id = cp.user_id
		WHERE a.job_id = $1
		ORDER BY a.created_at ASC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applicants := []domain.Applicant{}
	for rows.Next() {
		var a domain.Applicant
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.CandidateName, &a.CandidateEmail, &a.Summary, &a.ResumeURL,
		); err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
