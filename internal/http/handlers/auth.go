package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openpara/regionhub/internal/config"
	"github.com/openpara/regionhub/internal/domain/user"
	"github.com/openpara/regionhub/internal/repo/postgres"
	"github.com/openpara/regionhub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, name string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        TokenIssuer
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwt,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"omitempty,max=120"`
}

// Login deliberately has no binding tags: a missing email or password is a 401
// with the API's own message, not a 400 validation response.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondMessage(ctx, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	// The unique constraint on email decides the duplicate case; no separate
	// existence check, so concurrent registrations cannot race past each other.
	_, err = h.userWriter.Create(cctx, req.Email, hash, req.Name)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			RespondMessage(ctx, http.StatusConflict, "User already exists. Please Log in.")
			return
		}

		RespondMessage(ctx, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	RespondMessage(ctx, http.StatusCreated, "Successfully registered.")
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		RespondMessage(ctx, http.StatusUnauthorized, "Missing email or password")
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondMessage(ctx, http.StatusUnauthorized, "No account for that email address. Please register.")
			return
		}

		RespondMessage(ctx, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondMessage(ctx, http.StatusForbidden, "Incorrect password.")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID)

	if err != nil {
		RespondMessage(ctx, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"token": token})
}
