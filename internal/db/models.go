package db

import (
	"time"
)

type Role string

const (
	RoleRecruiter Role = "recruiter"
	RoleClient    Role = "client"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type JobPost struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	SalaryRange       string    `json:"salaryRange"`
	Location          string    `json:"location"`
	RecruiterID       int64     `json:"recruiterId"`
	ApplicationsCount *int64    `json:"applicationsCount,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Application struct {
	ID             int64     `json:"id"`
	JobPostID      int64     `json:"jobPostId"`
	ApplicantName  string    `json:"applicantName"`
	ApplicantEmail string    `json:"applicantEmail"`
	CoverLetter    string    `json:"coverLetter"`
	ResumeKey      string    `json:"resumePath"`
	CreatedAt      time.Time `json:"createdAt"`
}
