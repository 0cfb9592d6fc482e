package postgres

import (
	"context"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

// GetByUserID loads the profile together with its experiences and educations.
func (r *candidateRepository) GetByUserID(ctx context.Context, userID int64) (*domain.CandidateProfile, error) {
	query := `
		SELECT u.id, u.name, u.email, cp.summary, cp.phone, cp.linkedin,
		       cp.skills, cp.resume_url, cp.updated_at
		FROM candidate_profiles cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.user_id = $1`

	var p domain.CandidateProfile
	var skills []string
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Email, &p.Summary, &p.Phone, &p.LinkedIn,
		pq.Array(&skills), &p.ResumeURL, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	p.Skills = skills
	if p.Skills == nil {
		p.Skills = []string{}
	}

	if p.Experiences, err = r.ListExperiences(ctx, userID); err != nil {
		return nil, err
	}
	if p.Educations, err = r.ListEducations(ctx, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *candidateRepository) Update(ctx context.Context, profile *domain.CandidateProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET name = $2, updated_at = $3 WHERE id = $1`,
		profile.UserID, profile.Name, profile.UpdatedAt,
	); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE candidate_profiles
         SET summary = $2, phone = $3, linkedin = $4, skills = $5, updated_at = $6
         WHERE user_id = $1`,
		profile.UserID, profile.Summary, profile.Phone, profile.LinkedIn,
		pq.Array(profile.Skills), profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *candidateRepository) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles SET resume_url = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, url,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) GetCompleteness(ctx context.Context, userID int64) (*domain.ProfileCompleteness, error) {
	query := `
		SELECT cp.user_id, cp.summary, cp.resume_url,
		       (SELECT COUNT(*) FROM experiences e WHERE e.candidate_id = cp.user_id),
		       (SELECT COUNT(*) FROM educations ed WHERE ed.candidate_id = cp.user_id)
		FROM candidate_profiles cp
		WHERE cp.user_id = $1`

	var c domain.ProfileCompleteness
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&c.CandidateID, &c.Summary, &c.ResumeURL, &c.ExperienceCount, &c.EducationCount,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ============================================================================
// EXPERIENCES
// ============================================================================

const experienceColumns = `id, candidate_id, role, company, start_date, end_date, description`

func scanExperience(row pgx.Row) (*domain.Experience, error) {
	var e domain.Experience
	if err := row.Scan(&e.ID, &e.CandidateID, &e.Role, &e.Company, &e.StartDate, &e.EndDate, &e.Description); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *candidateRepository) ListExperiences(ctx context.Context, userID int64) ([]domain.Experience, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE candidate_id = $1 ORDER BY start_date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := []domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, *e)
	}
	return experiences, rows.Err()
}

func (r *candidateRepository) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	return scanExperience(r.db.QueryRow(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = $1`, id))
}

func (r *candidateRepository) CreateExperience(ctx context.Context, exp *domain.Experience) error {
	query := `INSERT INTO experiences (candidate_id, role, company, start_date, end_date, description)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRow(ctx, query,
		exp.CandidateID, exp.Role, exp.Company, exp.StartDate, exp.EndDate, exp.Description,
	).Scan(&exp.ID)
}

func (r *candidateRepository) UpdateExperience(ctx context.Context, exp *domain.Experience) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE experiences SET role = $2, company = $3, start_date = $4, end_date = $5, description = $6
         WHERE id = $1`,
		exp.ID, exp.Role, exp.Company, exp.StartDate, exp.EndDate, exp.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) DeleteExperience(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ============================================================================
// EDUCATIONS
// ============================================================================

const educationColumns = `id, candidate_id, institution, degree, course, start_date, end_date`

func scanEducation(row pgx.Row) (*domain.Education, error) {
	var e domain.Education
	if err := row.Scan(&e.ID, &e.CandidateID, &e.Institution, &e.Degree, &e.Course, &e.StartDate, &e.EndDate); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *candidateRepository) ListEducations(ctx context.Context, userID int64) ([]domain.Education, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+educationColumns+` FROM educations WHERE candidate_id = $1 ORDER BY start_date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	educations := []domain.Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		educations = append(educations, *e)
	}
	return educations, rows.Err()
}

func (r *candidateRepository) GetEducation(ctx context.Context, id int64) (*domain.Education, error) {
	return scanEducation(r.db.QueryRow(ctx, `SELECT `+educationColumns+` FROM educations WHERE id = $1`, id))
}

func (r *candidateRepository) CreateEducation(ctx context.Context, edu *domain.Education) error {
	query := `INSERT INTO educations (candidate_id, institution, degree, course, start_date, end_date)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRow(ctx, query,
		edu.CandidateID, edu.Institution, edu.Degree, edu.Course, edu.StartDate, edu.EndDate,
	).Scan(&edu.ID)
}

func (r *candidateRepository) UpdateEducation(ctx context.Context, edu *domain.Education) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE educations SET institution = $2, degree = $3, course = $4, start_date = $5, end_date = $6
         WHERE id = $1`,
		edu.ID, edu.Institution, edu.Degree, edu.Course, edu.StartDate, edu.EndDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) DeleteEducation(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM educations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
