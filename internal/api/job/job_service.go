package job

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/hsm-gustavo/job-board/internal/api/auth"
	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
	"github.com/hsm-gustavo/job-board/internal/logging"
	"github.com/hsm-gustavo/job-board/internal/storage"
	"github.com/hsm-gustavo/job-board/internal/validation"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps the row offset within an int.
	MaxPage = math.MaxInt / MaxPageSize
)

type PostInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	SalaryRange string `json:"salaryRange" validate:"max=255"`
	Location    string `json:"location" validate:"max=255"`
}

// PostUpdate holds the fields to change; nil fields keep their value.
type PostUpdate struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
	SalaryRange *string `json:"salaryRange" validate:"omitnil,max=255"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
}

type ApplicationInput struct {
	ApplicantName  string `json:"applicantName" validate:"required,max=255"`
	ApplicantEmail string `json:"applicantEmail" validate:"required,email,max=255"`
	CoverLetter    string `json:"coverLetter"`
}

// Resume is an uploaded file attached to an application.
type Resume struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	db     *sql.DB
	stores Stores
	files  storage.Storage
	log    logging.Logger
}

func NewService(conn *sql.DB, stores Stores, files storage.Storage, log logging.Logger) *Service {
	return &Service{db: conn, stores: stores, files: files, log: log}
}

func (s *Service) ListPosts(ctx context.Context, f ListFilter) ([]db.JobPost, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		return nil, apperr.InvalidInput("Invalid page")
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)

	posts, err := s.stores.Posts(s.db).List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("listing job posts", err)
	}
	return posts, nil
}

func (s *Service) GetPost(ctx context.Context, id int64) (*db.JobPost, error) {
	p, err := s.stores.Posts(s.db).Get(ctx, id)
	if err != nil {
		return nil, classify("fetching job post", err)
	}
	return p, nil
}

// CreatePost publishes a post owned by the calling recruiter.
func (s *Service) CreatePost(ctx context.Context, claims *auth.Claims, in PostInput) (*db.JobPost, error) {
	if claims != nil && claims.UserID <= 0 {
		return nil, apperr.InvalidInput("Recruiter ID is missing")
	}
	if err := auth.Authorize(claims, auth.RequireRole(db.RoleRecruiter)); err != nil {
		return nil, err
	}

	in = trimInput(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.stores.Posts(s.db).Create(ctx, &db.JobPost{
		Title:       in.Title,
		Description: in.Description,
		SalaryRange: in.SalaryRange,
		Location:    in.Location,
		RecruiterID: claims.UserID,
	})
	if err != nil {
		return nil, apperr.Internal("creating job post", err)
	}

	s.log.Info(ctx, "job post created", "job_post_id", p.ID, "recruiter_id", p.RecruiterID)
	return p, nil
}

// UpdatePost locks the post, checks ownership against the locked row and
// applies the change in the same transaction.
func (s *Service) UpdatePost(ctx context.Context, claims *auth.Claims, id int64, upd PostUpdate) (*db.JobPost, error) {
	if err := auth.Authorize(claims); err != nil {
		return nil, err
	}
	upd = trimUpdate(upd)
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}

	var updated *db.JobPost
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		posts := s.stores.Posts(tx)

		p, err := posts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(claims, p.RecruiterID); err != nil {
			return err
		}

		applyUpdate(p, upd)
		if err := posts.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, classify("updating job post", err)
	}

	s.log.Info(ctx, "job post updated", "job_post_id", id, "recruiter_id", claims.UserID)
	return updated, nil
}

// DeletePost removes the post and its applications, then their resumes.
func (s *Service) DeletePost(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := auth.Authorize(claims); err != nil {
		return err
	}

	var resumeKeys []string
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		posts := s.stores.Posts(tx)

		p, err := posts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(claims, p.RecruiterID); err != nil {
			return err
		}

		resumeKeys, err = s.stores.Applications(tx).ResumeKeys(ctx, id)
		if err != nil {
			return err
		}
		return posts.Delete(ctx, id)
	})
	if err != nil {
		return classify("deleting job post", err)
	}

	for _, key := range resumeKeys {
		if err := s.files.Delete(ctx, key); err != nil {
			s.log.Warn(ctx, "removing resume of deleted job post", "job_post_id", id, "key", key, "error", err)
		}
	}

	s.log.Info(ctx, "job post deleted", "job_post_id", id, "recruiter_id", claims.UserID)
	return nil
}

// Apply records an application. No authentication is involved.
func (s *Service) Apply(ctx context.Context, jobPostID int64, in ApplicationInput, resume *Resume) (*db.Application, error) {
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.ApplicantEmail = strings.TrimSpace(in.ApplicantEmail)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.stores.Posts(s.db).Get(ctx, jobPostID); err != nil {
		return nil, classify("fetching job post", err)
	}

	var key string
	if resume != nil {
		key = storage.NewResumeKey(jobPostID, resume.Filename)
		if err := s.files.Put(ctx, key, resume.Body, resume.Size, resume.ContentType); err != nil {
			return nil, apperr.Internal("storing resume", err)
		}
	}

	app, err := s.stores.Applications(s.db).Create(ctx, &db.Application{
		JobPostID:      jobPostID,
		ApplicantName:  in.ApplicantName,
		ApplicantEmail: in.ApplicantEmail,
		CoverLetter:    in.CoverLetter,
		ResumeKey:      key,
	})
	if err != nil {
		if key != "" {
			if derr := s.files.Delete(ctx, key); derr != nil {
				s.log.Warn(ctx, "removing orphaned resume", "key", key, "error", derr)
			}
		}
		return nil, classify("submitting application", err)
	}

	s.log.Info(ctx, "application submitted", "job_post_id", jobPostID, "application_id", app.ID)
	return app, nil
}

// ListApplications returns the applications of a post to its owner.
func (s *Service) ListApplications(ctx context.Context, claims *auth.Claims, jobPostID int64) ([]db.Application, error) {
	if err := s.authorizeOwner(ctx, claims, jobPostID); err != nil {
		return nil, err
	}

	apps, err := s.stores.Applications(s.db).ListByJobPost(ctx, jobPostID)
	if err != nil {
		return nil, apperr.Internal("listing applications", err)
	}
	return apps, nil
}

// OpenResume streams the resume of one application to the post owner.
// The caller closes the reader.
func (s *Service) OpenResume(ctx context.Context, claims *auth.Claims, jobPostID, applicationID int64) (io.ReadCloser, *db.Application, error) {
	if err := s.authorizeOwner(ctx, claims, jobPostID); err != nil {
		return nil, nil, err
	}

	app, err := s.stores.Applications(s.db).Get(ctx, jobPostID, applicationID)
	if err != nil {
		return nil, nil, classify("fetching application", err)
	}
	if app.ResumeKey == "" {
		return nil, nil, apperr.NotFound("Application has no resume")
	}

	rc, err := s.files.Get(ctx, app.ResumeKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperr.NotFound("Resume not found")
		}
		return nil, nil, apperr.Internal("opening resume", err)
	}
	return rc, app, nil
}

// authorizeOwner fetches the post for this request and checks the caller
// owns it.
func (s *Service) authorizeOwner(ctx context.Context, claims *auth.Claims, jobPostID int64) error {
	if err := auth.Authorize(claims); err != nil {
		return err
	}
	p, err := s.stores.Posts(s.db).Get(ctx, jobPostID)
	if err != nil {
		return classify("fetching job post", err)
	}
	return auth.AuthorizeOwner(claims, p.RecruiterID)
}

func applyUpdate(p *db.JobPost, upd PostUpdate) {
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.SalaryRange != nil {
		p.SalaryRange = *upd.SalaryRange
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
}

func trimUpdate(upd PostUpdate) PostUpdate {
	return PostUpdate{
		Title:       trimPtr(upd.Title),
		Description: trimPtr(upd.Description),
		SalaryRange: trimPtr(upd.SalaryRange),
		Location:    trimPtr(upd.Location),
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimInput(in PostInput) PostInput {
	return PostInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		SalaryRange: strings.TrimSpace(in.SalaryRange),
		Location:    strings.TrimSpace(in.Location),
	}
}

// classify keeps typed errors and wraps everything else as internal.
func classify(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal(op, err)
}
