package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/resumebuilder/api/http/presenter"
	"github.com/artem13815/resumebuilder/pkg/profile"
	"github.com/artem13815/resumebuilder/pkg/resume"
	"github.com/artem13815/resumebuilder/pkg/security/jwt"
)

type UserInfoHandler struct {
	profiles profile.UseCase
}

func NewUserInfoHandler(profiles profile.UseCase) *UserInfoHandler {
	return &UserInfoHandler{profiles: profiles}
}

// Get returns the master profile, or null when none was saved yet.
// @Summary Мастер-профиль пользователя
// @Tags    user-info
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resume.Profile
// @Router  /user-info [get]
func (h *UserInfoHandler) Get(c *fiber.Ctx) error {
	userID, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
	}
	p, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if p == nil {
		return c.Status(http.StatusOK).JSON(nil)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// Put replaces the master profile as a whole.
// @Summary Сохранить мастер-профиль
// @Tags    user-info
// @Accept  json
// @Security BearerAuth
// @Param   input body resume.Profile true "profile"
// @Success 204 {object} nil
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /user-info [put]
func (h *UserInfoHandler) Put(c *fiber.Ctx) error {
	userID, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
	}
	p, err := resume.ParseProfile(c.Body())
	if err != nil {
		return presenter.FromError(c, err)
	}
	if err := h.profiles.Upsert(c.UserContext(), userID, p); err != nil {
		return presenter.FromError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
