package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/resumebuilder/api/http/presenter"
	"github.com/artem13815/resumebuilder/pkg/auth"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "email and password are required")
	}

	result, err := h.useCase.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusConflict, presenter.CodeConflict, "user already exists")
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidCredentials):
			return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, err.Error())
		default:
			return presenter.FromError(c, err)
		}
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"id":        result.User.ID.String(),
		"email":     result.User.Email,
		"createdAt": result.User.CreatedAt,
		"token":     result.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "invalid credentials")
		}
		return presenter.FromError(c, err)
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"id":    result.User.ID.String(),
		"email": result.User.Email,
		"token": result.Token,
	})
}
