package job

import (
	"context"

	"github.com/hsm-gustavo/job-board/internal/db"
)

// ListFilter narrows the public job post listing. Title and Location are
// substring matches.
type ListFilter struct {
	Title    string
	Location string
	Page     int
	PageSize int
}

type PostRepository interface {
	Create(ctx context.Context, p *db.JobPost) (*db.JobPost, error)
	Get(ctx context.Context, id int64) (*db.JobPost, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*db.JobPost, error)
	Update(ctx context.Context, p *db.JobPost) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter) ([]db.JobPost, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *db.Application) (*db.Application, error)
	Get(ctx context.Context, jobPostID, id int64) (*db.Application, error)
	ListByJobPost(ctx context.Context, jobPostID int64) ([]db.Application, error)
	ResumeKeys(ctx context.Context, jobPostID int64) ([]string, error)
}

// Stores vends repositories bound to a connection or transaction.
type Stores interface {
	Posts(conn db.DBTX) PostRepository
	Applications(conn db.DBTX) ApplicationRepository
}

type MySQLStores struct{}

func (MySQLStores) Posts(conn db.DBTX) PostRepository {
	return NewMySQLPostRepository(conn)
}

func (MySQLStores) Applications(conn db.DBTX) ApplicationRepository {
	return NewMySQLApplicationRepository(conn)
}
