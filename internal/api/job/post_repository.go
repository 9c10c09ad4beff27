package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

var ErrPostNotFound = apperr.NotFound("Job post not found")

const postColumns = "id, title, description, salary_range, location, recruiter_id, created_at, updated_at"

type MySQLPostRepository struct {
	db db.DBTX
}

func NewMySQLPostRepository(conn db.DBTX) *MySQLPostRepository {
	return &MySQLPostRepository{db: conn}
}

func (r *MySQLPostRepository) Create(ctx context.Context, p *db.JobPost) (*db.JobPost, error) {
	now := time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO job_posts (title, description, salary_range, location, recruiter_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.SalaryRange, p.Location, p.RecruiterID, now, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *MySQLPostRepository) Get(ctx context.Context, id int64) (*db.JobPost, error) {
	return r.get(ctx, "SELECT "+postColumns+" FROM job_posts WHERE id = ?", id)
}

func (r *MySQLPostRepository) GetForUpdate(ctx context.Context, id int64) (*db.JobPost, error) {
	return r.get(ctx, "SELECT "+postColumns+" FROM job_posts WHERE id = ? FOR UPDATE", id)
}

func (r *MySQLPostRepository) get(ctx context.Context, query string, id int64) (*db.JobPost, error) {
	var p db.JobPost
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.SalaryRange, &p.Location, &p.RecruiterID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *MySQLPostRepository) Update(ctx context.Context, p *db.JobPost) error {
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	// MySQL reports changed rows, not matched rows, so an unchanged post
	// affects zero rows; existence is established by the caller's lock.
	_, err := r.db.ExecContext(ctx,
		`UPDATE job_posts SET title = ?, description = ?, salary_range = ?, location = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Description, p.SalaryRange, p.Location, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MySQLPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM job_posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *MySQLPostRepository) List(ctx context.Context, f ListFilter) ([]db.JobPost, error) {
	var (
		where []string
		args  []any
	)
	if f.Title != "" {
		where = append(where, "p.title LIKE ?")
		args = append(args, "%"+escapeLike(f.Title)+"%")
	}
	if f.Location != "" {
		where = append(where, "p.location LIKE ?")
		args = append(args, "%"+escapeLike(f.Location)+"%")
	}

	query := `SELECT p.id, p.title, p.description, p.salary_range, p.location, p.recruiter_id,
		p.created_at, p.updated_at, COUNT(a.id)
		FROM job_posts p
		LEFT JOIN applications a ON a.job_post_id = p.id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += `
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	posts := []db.JobPost{}
	for rows.Next() {
		var p db.JobPost
		var count int64
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.SalaryRange, &p.Location, &p.RecruiterID,
			&p.CreatedAt, &p.UpdatedAt, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.ApplicationsCount = &count
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
