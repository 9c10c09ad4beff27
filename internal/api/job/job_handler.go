package job

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"

	"github.com/hsm-gustavo/job-board/internal/api/auth"
	"github.com/hsm-gustavo/job-board/internal/api/httpx"
	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

const maxUploadSize = 10 << 20

// JobService is what the handlers need from Service.
type JobService interface {
	ListPosts(ctx context.Context, f ListFilter) ([]db.JobPost, error)
	GetPost(ctx context.Context, id int64) (*db.JobPost, error)
	CreatePost(ctx context.Context, claims *auth.Claims, in PostInput) (*db.JobPost, error)
	UpdatePost(ctx context.Context, claims *auth.Claims, id int64, upd PostUpdate) (*db.JobPost, error)
	DeletePost(ctx context.Context, claims *auth.Claims, id int64) error
	Apply(ctx context.Context, jobPostID int64, in ApplicationInput, resume *Resume) (*db.Application, error)
	ListApplications(ctx context.Context, claims *auth.Claims, jobPostID int64) ([]db.Application, error)
	OpenResume(ctx context.Context, claims *auth.Claims, jobPostID, applicationID int64) (io.ReadCloser, *db.Application, error)
}

type Handler struct {
	service JobService
	rs      httpx.Responder
}

func NewHandler(service JobService, rs httpx.Responder) *Handler {
	return &Handler{service: service, rs: rs}
}

type JobPostRequest struct {
	Title       *string `json:"title" validate:"omitnil,max=255" example:"Backend Engineer"`
	Description *string `json:"description" example:"Build and run our Go services"`
	SalaryRange *string `json:"salaryRange" validate:"omitnil,max=255" example:"80k-100k"`
	Location    *string `json:"location" validate:"omitnil,max=255" example:"Remote"`
}

type ApplicationRequest struct {
	ApplicantName  string `json:"applicantName" validate:"required" example:"Maria Souza"`
	ApplicantEmail string `json:"applicantEmail" validate:"required,email" example:"maria@example.com"`
	CoverLetter    string `json:"coverLetter" example:"I would love to join the team."`
}

// ListJobPosts godoc
// @Summary		List job posts
// @Description	Public listing with substring filters and pagination. Each post carries its applications count.
// @Tags			jobs
// @Produce		json
// @Param			title		query		string	false	"Title contains"
// @Param			location	query		string	false	"Location contains"
// @Param			page		query		int		false	"Page number (from 1)"	default(1)
// @Param			pageSize	query		int		false	"Page size (max 100)"	default(10)
// @Success		200			{array}		db.JobPost
// @Failure		400			{object}	httpx.ErrorResponse	"Invalid pagination"
// @Failure		500			{object}	httpx.ErrorResponse	"Internal server error"
// @Router			/jobs/jobposts [get]
func (h *Handler) ListJobPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q.Get("page"), 1)
	if err != nil {
		h.rs.Error(w, r, apperr.InvalidInput("Invalid page"))
		return
	}
	pageSize, err := queryInt(q.Get("pageSize"), DefaultPageSize)
	if err != nil {
		h.rs.Error(w, r, apperr.InvalidInput("Invalid pageSize"))
		return
	}

	posts, err := h.service.ListPosts(r.Context(), ListFilter{
		Title:    q.Get("title"),
		Location: q.Get("location"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, posts)
}

// GetJobPost godoc
// @Summary		Get a job post
// @Tags			jobs
// @Produce		json
// @Param			id	path		int	true	"Job post ID"
// @Success		200	{object}	db.JobPost
// @Failure		404	{object}	httpx.ErrorResponse	"Job post not found"
// @Router			/jobs/jobposts/{id} [get]
func (h *Handler) GetJobPost(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.Int64Param(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, post)
}

// CreateJobPost godoc
// @Summary		Create a job post
// @Description	Creates a post owned by the calling recruiter
// @Tags			jobs
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			post	body		JobPostRequest	true	"Job post"
// @Success		200		{object}	db.JobPost
// @Failure		400		{object}	httpx.ErrorResponse	"Missing recruiter id or title"
// @Failure		401		{object}	httpx.ErrorResponse	"Missing or malformed token"
// @Failure		403		{object}	httpx.ErrorResponse	"Invalid token or not a recruiter"
// @Failure		500		{object}	httpx.ErrorResponse	"Internal server error"
// @Router			/jobs/jobposts [post]
func (h *Handler) CreateJobPost(w http.ResponseWriter, r *http.Request) {
	var req JobPostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	post, err := h.service.CreatePost(r.Context(), claims, PostInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		SalaryRange: deref(req.SalaryRange),
		Location:    deref(req.Location),
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, post)
}

// UpdateJobPost godoc
// @Summary		Update a job post
// @Description	Only the owning recruiter may update. Omitted fields are kept.
// @Tags			jobs
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			id		path		int				true	"Job post ID"
// @Param			post	body		JobPostRequest	true	"Fields to change"
// @Success		200		{object}	db.JobPost
// @Failure		401		{object}	httpx.ErrorResponse	"Missing or malformed token"
// @Failure		403		{object}	httpx.ErrorResponse	"Not the owner"
// @Failure		404		{object}	httpx.ErrorResponse	"Job post not found"
// @Router			/jobs/jobposts/{id} [put]
func (h *Handler) UpdateJobPost(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.Int64Param(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	var req JobPostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	post, err := h.service.UpdatePost(r.Context(), claims, id, PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		SalaryRange: req.SalaryRange,
		Location:    req.Location,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, post)
}

// DeleteJobPost godoc
// @Summary		Delete a job post
// @Description	Only the owning recruiter may delete. Applications are removed with the post.
// @Tags			jobs
// @Produce		json
// @Security		BearerAuth
// @Param			id	path		int	true	"Job post ID"
// @Success		200	{object}	httpx.MessageResponse
// @Failure		401	{object}	httpx.ErrorResponse	"Missing or malformed token"
// @Failure		403	{object}	httpx.ErrorResponse	"Not the owner"
// @Failure		404	{object}	httpx.ErrorResponse	"Job post not found"
// @Router			/jobs/jobposts/{id} [delete]
func (h *Handler) DeleteJobPost(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.Int64Param(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	if err := h.service.DeletePost(r.Context(), claims, id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "Job post deleted"})
}

// SubmitApplication godoc
// @Summary		Apply to a job post
// @Description	Public. Accepts multipart/form-data with an optional "resume" file, or a JSON body.
// @Tags			applications
// @Accept			multipart/form-data
// @Accept			json
// @Produce		json
// @Param			id				path		int		true	"Job post ID"
// @Param			applicantName	formData	string	true	"Applicant name"
// @Param			applicantEmail	formData	string	true	"Applicant email"
// @Param			coverLetter		formData	string	false	"Cover letter"
// @Param			resume			formData	file	false	"Resume file"
// @Success		200				{object}	db.Application
// @Failure		400				{object}	httpx.ErrorResponse	"Invalid input"
// @Failure		404				{object}	httpx.ErrorResponse	"Job post not found"
// @Failure		500				{object}	httpx.ErrorResponse	"Internal server error"
// @Router			/jobs/jobposts/{id}/applications [post]
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.Int64Param(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	var (
		in     ApplicationInput
		resume *Resume
	)

	if httpx.IsJSON(r) {
		var req ApplicationRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			h.rs.Error(w, r, err)
			return
		}
		in = ApplicationInput(req)
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.rs.Error(w, r, apperr.Wrap(apperr.KindInvalidInput, "Invalid form data or file too large", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		in = ApplicationInput{
			ApplicantName:  r.FormValue("applicantName"),
			ApplicantEmail: r.FormValue("applicantEmail"),
			CoverLetter:    r.FormValue("coverLetter"),
		}

		file, header, err := r.FormFile("resume")
		switch {
		case err == nil:
			defer file.Close()
			resume = newResume(file, header)
		case !errors.Is(err, http.ErrMissingFile):
			h.rs.Error(w, r, apperr.Wrap(apperr.KindInvalidInput, "Invalid resume upload", err))
			return
		}
	}

	app, err := h.service.Apply(r.Context(), id, in, resume)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, app)
}

// ListApplications godoc
// @Summary		List applications of a job post
// @Description	Only the owning recruiter may read applications
// @Tags			applications
// @Produce		json
// @Security		BearerAuth
// @Param			id	path		int	true	"Job post ID"
// @Success		200	{array}		db.Application
// @Failure		401	{object}	httpx.ErrorResponse	"Missing or malformed token"
// @Failure		403	{object}	httpx.ErrorResponse	"Not the owner"
// @Failure		404	{object}	httpx.ErrorResponse	"Job post not found"
// @Router			/jobs/jobposts/{id}/applications [get]
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.Int64Param(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	apps, err := h.service.ListApplications(r.Context(), claims, id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, apps)
}

// DownloadResume godoc
// @Summary		Download an applicant's resume
// @Tags			applications
// @Produce		octet-stream
// @Security		BearerAuth
// @Param			id				path		int	true	"Job post ID"
// @Param			applicationId	path		int	true	"Application ID"
// @Success		200				{file}		binary
// @Failure		403				{object}	httpx.ErrorResponse	"Not the owner"
// @Failure		404				{object}	httpx.ErrorResponse	"Application or resume not found"
// @Router			/jobs/jobposts/{id}/applications/{applicationId}/resume [get]
func (h *Handler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.Int64Param(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	appID, err := httpx.Int64Param(r, "applicationId")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	rc, app, err := h.service.OpenResume(r.Context(), claims, id, appID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	filename := "resume-" + strconv.FormatInt(app.ID, 10) + path.Ext(app.ResumeKey)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func newResume(file multipart.File, header *multipart.FileHeader) *Resume {
	return &Resume{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New("must be a positive integer")
	}
	return v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
