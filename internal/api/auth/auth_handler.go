package auth

import (
	"net/http"
	"time"

	"github.com/hsm-gustavo/job-board/internal/api/httpx"
	"github.com/hsm-gustavo/job-board/internal/db"
)

// Request/Response structures

type RegisterRequest struct {
	Name     string `json:"name" validate:"required" example:"João Silva"`
	Email    string `json:"email" validate:"required,email" example:"joao@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
	Role     string `json:"role,omitempty" example:"recruiter"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"joao@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

type AuthResponse struct {
	Token     string  `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string  `json:"tokenType" example:"Bearer"`
	ExpiresIn int64   `json:"expiresIn" example:"3600"`
	Name      string  `json:"name" example:"João Silva"`
	Email     string  `json:"email" example:"joao@example.com"`
	Role      db.Role `json:"role" example:"recruiter"`
}

type AuthHandler struct {
	service *AuthService
	rs      httpx.Responder
}

func NewAuthHandler(service *AuthService, rs httpx.Responder) *AuthHandler {
	return &AuthHandler{service: service, rs: rs}
}

// Register godoc
// @Summary		Register a recruiter or client account
// @Description	Admin console registration. Role is optional and defaults to recruiter. Returns a token right away.
// @Tags			users
// @Accept			json
// @Produce		json
// @Param			user	body		RegisterRequest			true	"User registration data"
// @Success		200		{object}	AuthResponse			"User registered"
// @Failure		400		{object}	httpx.ErrorResponse		"Invalid input or email already exists"
// @Failure		500		{object}	httpx.ErrorResponse		"Internal server error"
// @Router			/users/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, AdminRegistration)
}

// RegisterClient godoc
// @Summary		Register a job-seeker account
// @Description	Job-seeker registration. The role is always client.
// @Tags			users
// @Accept			json
// @Produce		json
// @Param			user	body		RegisterRequest			true	"User registration data"
// @Success		200		{object}	AuthResponse			"User registered"
// @Failure		400		{object}	httpx.ErrorResponse		"Invalid input or email already exists"
// @Failure		500		{object}	httpx.ErrorResponse		"Internal server error"
// @Router			/users/register/client [post]
func (h *AuthHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, ClientRegistration)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, policy RegistrationPolicy) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     db.Role(req.Role),
	}, policy)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.JSON(w, http.StatusOK, h.newAuthResponse(session))
}

// Login godoc
// @Summary		User login
// @Description	Authenticate with email and password and return an access token
// @Tags			users
// @Accept			json
// @Produce		json
// @Param			credentials	body		LoginRequest			true	"User login credentials"
// @Success		200			{object}	AuthResponse			"Login successful"
// @Failure		400			{object}	httpx.ErrorResponse		"Bad request - invalid input"
// @Failure		401			{object}	httpx.ErrorResponse		"Unauthorized - invalid credentials"
// @Failure		500			{object}	httpx.ErrorResponse		"Internal server error"
// @Router			/users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.JSON(w, http.StatusOK, h.newAuthResponse(session))
}

func (h *AuthHandler) newAuthResponse(s *Session) AuthResponse {
	return AuthResponse{
		Token:     s.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.service.tokens.TTL() / time.Second),
		Name:      s.User.Name,
		Email:     s.User.Email,
		Role:      s.User.Role,
	}
}
