package auth

import (
	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

// Check is one authorization rule over verified claims.
type Check func(c *Claims) error

// Authorize applies checks in order and fails closed: missing claims are
// Unauthorized, the first failing check wins.
func Authorize(c *Claims, checks ...Check) error {
	if c == nil || c.UserID <= 0 {
		return apperr.Unauthorized("Authentication required")
	}
	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

func RequireRole(role db.Role) Check {
	return func(c *Claims) error {
		if c.Role != role {
			return apperr.Forbidden(string(role) + " role required")
		}
		return nil
	}
}

func RequireOwner(ownerID int64) Check {
	return func(c *Claims) error {
		if c.UserID != ownerID {
			return apperr.Forbidden("You do not have permission to access this resource")
		}
		return nil
	}
}

// AuthorizeOwner is the job post policy: the caller must be a recruiter and
// the recorded owner. ownerID must come from a read made in the same request.
func AuthorizeOwner(c *Claims, ownerID int64) error {
	return Authorize(c, RequireRole(db.RoleRecruiter), RequireOwner(ownerID))
}
