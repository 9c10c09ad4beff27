package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

var ErrApplicationNotFound = apperr.NotFound("Application not found")

const applicationColumns = "id, job_post_id, applicant_name, applicant_email, cover_letter, resume_key, created_at"

type MySQLApplicationRepository struct {
	db db.DBTX
}

func NewMySQLApplicationRepository(conn db.DBTX) *MySQLApplicationRepository {
	return &MySQLApplicationRepository{db: conn}
}

func (r *MySQLApplicationRepository) Create(ctx context.Context, a *db.Application) (*db.Application, error) {
	now := time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (job_post_id, applicant_name, applicant_email, cover_letter, resume_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.JobPostID, a.ApplicantName, a.ApplicantEmail, a.CoverLetter, a.ResumeKey, now)
	if err != nil {
		if db.IsMissingReference(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.ID = id
	a.CreatedAt = now
	return a, nil
}

func (r *MySQLApplicationRepository) Get(ctx context.Context, jobPostID, id int64) (*db.Application, error) {
	var a db.Application
	err := r.db.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id = ? AND job_post_id = ?", id, jobPostID).
		Scan(&a.ID, &a.JobPostID, &a.ApplicantName, &a.ApplicantEmail, &a.CoverLetter, &a.ResumeKey, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

func (r *MySQLApplicationRepository) ListByJobPost(ctx context.Context, jobPostID int64) ([]db.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE job_post_id = ? ORDER BY id", jobPostID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	apps := []db.Application{}
	for rows.Next() {
		var a db.Application
		if err := rows.Scan(&a.ID, &a.JobPostID, &a.ApplicantName, &a.ApplicantEmail, &a.CoverLetter, &a.ResumeKey, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return apps, nil
}

func (r *MySQLApplicationRepository) ResumeKeys(ctx context.Context, jobPostID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT resume_key FROM applications WHERE job_post_id = ? AND resume_key <> ''", jobPostID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
