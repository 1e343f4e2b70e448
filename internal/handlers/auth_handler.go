package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mockmate/interview/internal/middleware"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/repositories"
	"mockmate/interview/internal/utils"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	Repo      *repositories.UserRepository
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(repo *repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		Repo:      repo,
		JWTSecret: jwtSecret,
		TokenTTL:  24 * time.Hour,
	}
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	if existing, _ := h.Repo.GetUserByUsername(req.Username); existing != nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "username_taken",
			Message: "Username is already taken",
		})
		return
	}
	if existing, _ := h.Repo.GetUserByEmail(req.Email); existing != nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "email_taken",
			Message: "Email is already registered",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to hash password",
		})
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.Repo.CreateUser(user); err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create user",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.Repo.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
				Code:    "invalid_credentials",
				Message: "Invalid credentials",
			})
			return
		}
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Something went wrong",
		})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "Invalid credentials",
		})
		return
	}

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(h.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.JWTSecret))
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to sign token",
		})
		return
	}

	utils.JSON(w, http.StatusOK, authResponse{Token: signed})
}

// MeHandler returns the authenticated caller's profile.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	user, err := h.Repo.GetUserByID(userID)
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "user_not_found",
			Message: "User not found",
		})
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
