package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/resumebuilder/api/http/presenter"
	"github.com/artem13815/resumebuilder/pkg/chat"
	"github.com/artem13815/resumebuilder/pkg/docimport"
	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

// DocumentParser turns uploaded binary resumes into canonical documents.
type DocumentParser interface {
	ParsePDF(ctx context.Context, in docimport.Input) (resume.Document, error)
	ParseDocx(ctx context.Context, in docimport.Input) (resume.Document, error)
}

// ChatEditor streams one chat turn.
type ChatEditor interface {
	Check(req chat.Request) error
	Stream(ctx context.Context, req chat.Request, emit func(chat.Event) error) error
}

// ConnectionTester probes a provider with the given credential override.
type ConnectionTester func(ctx context.Context, override *llm.Credentials) error

type AIHandler struct {
	parser  DocumentParser
	editor  ChatEditor
	probe   ConnectionTester
	timeout time.Duration
}

func NewAIHandler(parser DocumentParser, editor ChatEditor, probe ConnectionTester, timeout time.Duration) *AIHandler {
	return &AIHandler{parser: parser, editor: editor, probe: probe, timeout: timeout}
}

func (h *AIHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// TestConnection sends a tiny prompt with the given credentials.
// @Summary Проверка подключения к AI-провайдеру
// @Tags    ai
// @Accept  json
// @Produce json
// @Param   input body llm.Credentials true "provider, model, apiKey, baseURL"
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 500 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /ai/test-connection [post]
func (h *AIHandler) TestConnection(c *fiber.Ctx) error {
	var creds llm.Credentials
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&creds); err != nil {
			return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
		}
	}
	ctx, cancel := h.withTimeout(c.UserContext())
	defer cancel()
	if err := h.probe(ctx, &creds); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"ok": true})
}

type uploadedFile struct {
	Name      string `json:"name"`
	Data      string `json:"data"`
	MediaType string `json:"mediaType"`
}

type parseRequest struct {
	File        uploadedFile     `json:"file"`
	MediaType   string           `json:"mediaType"`
	Credentials *llm.Credentials `json:"credentials"`
}

func (r parseRequest) input() docimport.Input {
	mt := r.File.MediaType
	if mt == "" {
		mt = r.MediaType
	}
	return docimport.Input{FileName: r.File.Name, Data: r.File.Data, MediaType: mt, Credentials: r.Credentials}
}

// ParsePDF extracts a canonical resume from a base64 PDF. Nothing is stored.
// @Summary Импорт резюме из PDF
// @Tags    ai
// @Accept  json
// @Produce json
// @Param   input body parseRequest true "file: {name, data (base64)}, credentials"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /ai/parse-pdf [post]
func (h *AIHandler) ParsePDF(c *fiber.Ctx) error {
	return h.parse(c, h.parser.ParsePDF)
}

// ParseDocx extracts a canonical resume from a base64 DOC/DOCX file.
// @Summary Импорт резюме из DOCX
// @Tags    ai
// @Accept  json
// @Produce json
// @Param   input body parseRequest true "file: {name, data (base64)}, mediaType, credentials"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /ai/parse-docx [post]
func (h *AIHandler) ParseDocx(c *fiber.Ctx) error {
	return h.parse(c, h.parser.ParseDocx)
}

func (h *AIHandler) parse(c *fiber.Ctx, run func(context.Context, docimport.Input) (resume.Document, error)) error {
	var req parseRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	ctx, cancel := h.withTimeout(c.UserContext())
	defer cancel()
	doc, err := run(ctx, req.input())
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, doc)
}

type chatRequest struct {
	Provider    llm.Provider     `json:"provider"`
	Model       string           `json:"model"`
	Credentials *llm.Credentials `json:"credentials"`
	Messages    []llm.Message    `json:"messages"`
	ResumeData  json.RawMessage  `json:"resumeData"`
}

func (r chatRequest) toChat() (chat.Request, error) {
	var creds *llm.Credentials
	if r.Credentials != nil || r.Provider != "" || r.Model != "" {
		creds = &llm.Credentials{}
		if r.Credentials != nil {
			*creds = *r.Credentials
		}
		if r.Provider != "" {
			creds.Provider = r.Provider
		}
		if r.Model != "" {
			creds.Model = r.Model
		}
	}
	doc := resume.DefaultDocument()
	if len(r.ResumeData) > 0 && string(r.ResumeData) != "null" {
		var err error
		if doc, err = resume.Parse(r.ResumeData); err != nil {
			return chat.Request{}, err
		}
	}
	return chat.Request{Credentials: creds, Messages: r.Messages, Document: doc}, nil
}

// Chat streams the assistant reply as server-sent events: "text" and
// "patch" events, then "done". A failure after streaming has started is
// sent as an "error" event.
// @Summary Редактирование резюме в чате (SSE)
// @Tags    ai
// @Accept  json
// @Produce text/event-stream
// @Param   input body chatRequest true "provider, model, credentials, messages, resumeData"
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /ai/chat [post]
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var body chatRequest
	if err := c.BodyParser(&body); err != nil {
		return presenter.Error(c, http.StatusBadRequest, presenter.CodeBadRequest, "invalid JSON payload")
	}
	req, err := body.toChat()
	if err != nil {
		return presenter.FromError(c, err)
	}
	if err := h.editor.Check(req); err != nil {
		return presenter.FromError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	base := c.UserContext()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := h.withTimeout(base)
		defer cancel()
		err := h.editor.Stream(ctx, req, func(ev chat.Event) error {
			return writeEvent(w, string(ev.Type), ev)
		})
		if err != nil {
			slog.WarnContext(ctx, "chat stream failed", "error", err)
			_, resp := presenter.Body(ctx, err)
			_ = writeEvent(w, "error", resp)
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
