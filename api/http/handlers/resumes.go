package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/resumebuilder/api/http/presenter"
	"github.com/artem13815/resumebuilder/pkg/chat"
	"github.com/artem13815/resumebuilder/pkg/importer"
	"github.com/artem13815/resumebuilder/pkg/resume"
	"github.com/artem13815/resumebuilder/pkg/security/jwt"
)

// ResumeService is the part of the builder the HTTP layer needs.
type ResumeService interface {
	ImportJSON(ctx context.Context, ownerID uuid.UUID, format importer.Format, raw, title string) (resume.Record, error)
	SaveImported(ctx context.Context, ownerID uuid.UUID, title string, source resume.Source, doc resume.Document) (resume.Record, error)
	GenerateFromProfile(ctx context.Context, ownerID uuid.UUID, jobDescription, title string) (resume.Record, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (resume.Record, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Record, error)
	Patch(ctx context.Context, ownerID, id uuid.UUID, ops []chat.Operation) (resume.Record, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type ResumesHandler struct {
	svc  ResumeService
	page Page
}

// NewResumesHandler serves resume records; page bounds the list endpoint.
func NewResumesHandler(svc ResumeService, page Page) *ResumesHandler {
	return &ResumesHandler{svc: svc, page: page.orDefault()}
}

type importRequest struct {
	Format importer.Format `json:"format"`
	// Data is either the file text as a JSON string or the document itself.
	Data  json.RawMessage `json:"data"`
	Title string          `json:"title"`
}

// raw returns the text the importer should see.
func (r importRequest) raw() string {
	data := strings.TrimSpace(string(r.Data))
	if strings.HasPrefix(data, `"`) {
		var s string
		if err := json.Unmarshal(r.Data, &s); err == nil {
			return s
		}
	}
	return data
}

// Import converts a JSON resume export into a stored resume.
// @Summary Импорт резюме из JSON
// @Description format: reactive-resume-json, reactive-resume-v4-json или json-resume-json.
// @Tags    Резюме
// @Accept  json
// @Produce json
// @Param   input body importRequest true "format, data, title"
// @Security BearerAuth
// @Success 201 {object} resume.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resumes/import [post]
func (h *ResumesHandler) Import(c *fiber.Ctx) error {
	owner, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
	}
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	if len(req.Data) == 0 {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "data is required")
	}
	rec, err := h.svc.ImportJSON(c.UserContext(), owner, req.Format, req.raw(), req.Title)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, rec)
}

type createRequest struct {
	Title  string          `json:"title"`
	Source resume.Source   `json:"source"`
	Data   json.RawMessage `json:"data"`
}

// Create stores a canonical document, typically one returned by parse-pdf
// or parse-docx. An empty body stores the blank document.
// @Summary Сохранить резюме
// @Tags    Резюме
// @Accept  json
// @Produce json
// @Param   input body createRequest true "title, source, data"
// @Security BearerAuth
// @Success 201 {object} resume.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resumes [post]
func (h *ResumesHandler) Create(c *fiber.Ctx) error {
	owner, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	doc := resume.DefaultDocument()
	if len(req.Data) > 0 && string(req.Data) != "null" {
		var err error
		if doc, err = resume.Parse(req.Data); err != nil {
			return presenter.FromError(c, err)
		}
	}
	rec, err := h.svc.SaveImported(c.UserContext(), owner, req.Title, req.Source, doc)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, rec)
}

type generateRequest struct {
	JobDescription string `json:"jobDescription"`
	Title          string `json:"title"`
}

// Generate builds a resume from the user's master profile, tailored to the
// job description when one is given.
// @Summary Сгенерировать резюме из профиля
// @Tags    Резюме
// @Accept  json
// @Produce json
// @Param   input body generateRequest false "jobDescription, title"
// @Security BearerAuth
// @Success 201 {object} resume.Record
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resumes/generate [post]
func (h *ResumesHandler) Generate(c *fiber.Ctx) error {
	owner, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
	}
	var req generateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
		}
	}
	rec, err := h.svc.GenerateFromProfile(c.UserContext(), owner, req.JobDescription, req.Title)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, rec)
}

// List возвращает резюме пользователя, новые первыми.
// @Summary Список резюме
// @Tags    Резюме
// @Produce json
// @Param   limit  query int false "limit (1..max page size, clamped)"
// @Param   offset query int false "offset"
// @Security BearerAuth
// @Success 200 {array} resume.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /resumes [get]
func (h *ResumesHandler) List(c *fiber.Ctx) error {
	owner, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
	}
	limit, offset, err := h.page.limitOffset(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, err.Error())
	}
	items, err := h.svc.List(c.UserContext(), owner, limit, offset)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if items == nil {
		items = []resume.Record{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get
// @Summary Получить резюме
// @Tags    Резюме
// @Produce json
// @Param   id path string true "ID резюме (UUID)"
// @Security BearerAuth
// @Success 200 {object} resume.Record
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [get]
func (h *ResumesHandler) Get(c *fiber.Ctx) error {
	owner, id, ok := h.target(c)
	if !ok {
		return nil
	}
	rec, err := h.svc.Get(c.UserContext(), owner, id)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

type patchRequest struct {
	Operations []chat.Operation `json:"operations"`
}

// Patch applies add/replace/remove operations, e.g. ones proposed in chat.
// @Summary Применить изменения к резюме
// @Tags    Резюме
// @Accept  json
// @Produce json
// @Param   id    path string       true "ID резюме (UUID)"
// @Param   input body patchRequest true "operations"
// @Security BearerAuth
// @Success 200 {object} resume.Record
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [patch]
func (h *ResumesHandler) Patch(c *fiber.Ctx) error {
	owner, id, ok := h.target(c)
	if !ok {
		return nil
	}
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	if len(req.Operations) == 0 {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "operations are required")
	}
	rec, err := h.svc.Patch(c.UserContext(), owner, id, req.Operations)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

// Delete удаляет резюме.
// @Summary Удалить резюме
// @Tags    Резюме
// @Param   id path string true "ID резюме (UUID)"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [delete]
func (h *ResumesHandler) Delete(c *fiber.Ctx) error {
	owner, id, ok := h.target(c)
	if !ok {
		return nil
	}
	if err := h.svc.Delete(c.UserContext(), owner, id); err != nil {
		return presenter.FromError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// target resolves the caller and the :id parameter. It writes the error
// response itself and reports false when either is missing.
func (h *ResumesHandler) target(c *fiber.Ctx) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := jwt.UserID(c)
	if !ok {
		_ = presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}
