package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumebuilder/api/http/handlers"
	"github.com/artem13815/resumebuilder/api/http/presenter"
	"github.com/artem13815/resumebuilder/pkg/auth"
	"github.com/artem13815/resumebuilder/pkg/builder"
	"github.com/artem13815/resumebuilder/pkg/chat"
	"github.com/artem13815/resumebuilder/pkg/docimport"
	"github.com/artem13815/resumebuilder/pkg/generator"
	"github.com/artem13815/resumebuilder/pkg/health"
	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/llm/llmtest"
	"github.com/artem13815/resumebuilder/pkg/profile"
	"github.com/artem13815/resumebuilder/pkg/repository/memory"
	"github.com/artem13815/resumebuilder/pkg/resume"
	"github.com/artem13815/resumebuilder/pkg/security/jwt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func (m *memUsers) Create(_ context.Context, u auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return auth.ErrUserAlreadyExists
	}
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

type stubParser struct {
	doc resume.Document
	err error
	in  docimport.Input
}

func (p *stubParser) ParsePDF(_ context.Context, in docimport.Input) (resume.Document, error) {
	p.in = in
	return p.doc, p.err
}

func (p *stubParser) ParseDocx(_ context.Context, in docimport.Input) (resume.Document, error) {
	p.in = in
	return p.doc, p.err
}

type server struct {
	app    *fiber.App
	token  string
	parser *stubParser
	model  *llmtest.Model
	probe  error
	down   error
}

// database stands in for the postgres readiness checker.
type database struct{ s *server }

func (database) Name() string { return "postgres" }

func (d database) Check(context.Context) error { return d.s.down }

var aiDefaults = llm.Credentials{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-test"}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{parser: &stubParser{doc: resume.DefaultDocument()}, model: &llmtest.Model{}}

	tokens := jwt.NewGenerator("secret", "resumebuilder", time.Hour)
	authUC := auth.NewAuthService(&memUsers{users: map[string]auth.User{}}, tokens)
	profiles := memory.NewProfileRepository()
	svc := builder.NewService(memory.NewResumeRepository(), profiles, generator.New(nil, llm.Credentials{}), nil)
	probe := func(context.Context, *llm.Credentials) error { return s.probe }

	s.app = fiber.New()
	Register(s.app, Handlers{
		Auth:     handlers.NewAuthHandler(authUC),
		Health:   handlers.NewHealthHandler(health.NewService(database{s}), time.Second),
		AI:       handlers.NewAIHandler(s.parser, chat.NewEditor(llmtest.Factory(s.model, nil, nil), aiDefaults), probe, time.Minute),
		Resumes:  handlers.NewResumesHandler(svc, handlers.Page{Size: 1, Max: 2}),
		UserInfo: handlers.NewUserInfoHandler(profile.NewService(profiles)),
	}, jwt.NewAuthMiddleware(tokens))

	resp := s.do(t, nethttp.MethodPost, "/api/v1/auth/register", `{"email":"ada@example.com","password":"correct horse"}`)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	s.token = body.Token
	return s
}

func (s *server) do(t *testing.T, method, path, body string) *nethttp.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *nethttp.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const jsonResume = `{"basics":{"name":"Ada Lovelace","label":"Engineer"},"skills":[{"name":"Go","level":"Advanced"}]}`

func TestProbesAreOpen(t *testing.T) {
	s := newServer(t)
	s.token = ""
	assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/api/v1/health", "").StatusCode)
	assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/api/v1/ready", "").StatusCode)
	assert.Equal(t, nethttp.StatusUnauthorized, s.do(t, nethttp.MethodGet, "/api/v1/resumes", "").StatusCode)
	assert.Equal(t, nethttp.StatusUnauthorized, s.do(t, nethttp.MethodPost, "/api/v1/ai/chat", "{}").StatusCode)
}

func TestReadinessListsFailures(t *testing.T) {
	s := newServer(t)
	s.down = errors.New("missing tables: resumes")

	resp := s.do(t, nethttp.MethodGet, "/api/v1/ready", "")
	require.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
	body := decode[struct {
		Status string   `json:"status"`
		Failed []string `json:"failed"`
	}](t, resp)
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, []string{"postgres: missing tables: resumes"}, body.Failed)
}

func TestListPaging(t *testing.T) {
	s := newServer(t)
	for range 3 {
		resp := s.do(t, nethttp.MethodPost, "/api/v1/resumes/import", `{"format":"json-resume-json","data":`+jsonResume+`}`)
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?limit=2", 2},
		{"?limit=50", 2},
		{"?limit=2&offset=2", 1},
		{"?offset=9", 0},
	}
	for _, tt := range tests {
		resp := s.do(t, nethttp.MethodGet, "/api/v1/resumes"+tt.query, "")
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, tt.query)
		assert.Len(t, decode[[]resume.Record](t, resp), tt.want, tt.query)
	}

	for _, bad := range []string{"?limit=abc", "?limit=0", "?offset=-1"} {
		resp := s.do(t, nethttp.MethodGet, "/api/v1/resumes"+bad, "")
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newServer(t)
	s.token = ""

	resp := s.do(t, nethttp.MethodPost, "/api/v1/auth/register", `{"email":"ada@example.com","password":"another one"}`)
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
	resp = s.do(t, nethttp.MethodPost, "/api/v1/auth/register", `{"email":"bob@example.com","password":"short"}`)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, nethttp.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"wrong password"}`)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	resp = s.do(t, nethttp.MethodPost, "/api/v1/auth/login", `{"email":"ADA@example.com","password":"correct horse"}`)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestResumeLifecycle(t *testing.T) {
	s := newServer(t)

	// data may be the file text as a string or the JSON document itself
	str, _ := json.Marshal(jsonResume)
	resp := s.do(t, nethttp.MethodPost, "/api/v1/resumes/import", `{"format":"json-resume-json","data":`+string(str)+`}`)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	first := decode[resume.Record](t, resp)
	assert.Equal(t, "Ada Lovelace", first.Title)

	resp = s.do(t, nethttp.MethodPost, "/api/v1/resumes/import", `{"format":"json-resume-json","title":"raw","data":`+jsonResume+`}`)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp = s.do(t, nethttp.MethodGet, "/api/v1/resumes?limit=10", "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]resume.Record](t, resp), 2)

	resp = s.do(t, nethttp.MethodPatch, "/api/v1/resumes/"+first.ID.String(),
		`{"operations":[{"op":"replace","path":"/basics/headline","value":"Staff Engineer"}]}`)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Staff Engineer", decode[resume.Record](t, resp).Data.Basics.Headline)

	resp = s.do(t, nethttp.MethodPatch, "/api/v1/resumes/"+first.ID.String(),
		`{"operations":[{"op":"replace","path":"/sections/skills/items/0/level","value":42}]}`)
	require.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[presenter.ErrorResponse](t, resp)
	assert.Equal(t, presenter.CodeValidation, body.Code)
	assert.NotEmpty(t, body.Fields)

	resp = s.do(t, nethttp.MethodGet, "/api/v1/resumes/"+first.ID.String(), "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Staff Engineer", decode[resume.Record](t, resp).Data.Basics.Headline)

	assert.Equal(t, nethttp.StatusNoContent, s.do(t, nethttp.MethodDelete, "/api/v1/resumes/"+first.ID.String(), "").StatusCode)
	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodGet, "/api/v1/resumes/"+first.ID.String(), "").StatusCode)
	assert.Equal(t, nethttp.StatusBadRequest, s.do(t, nethttp.MethodGet, "/api/v1/resumes/not-a-uuid", "").StatusCode)
}

func TestImportErrors(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/api/v1/resumes/import", `{"format":"json-resume-json","data":"{oops"}`)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, presenter.CodeMalformed, decode[presenter.ErrorResponse](t, resp).Code)

	resp = s.do(t, nethttp.MethodPost, "/api/v1/resumes/import", `{"format":"word","data":"{}"}`)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, presenter.CodeBadRequest, decode[presenter.ErrorResponse](t, resp).Code)
}

func TestCreateAndGenerate(t *testing.T) {
	s := newServer(t)

	doc := resume.DefaultDocument()
	doc.Basics.Name = "Grace Hopper"
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	resp := s.do(t, nethttp.MethodPost, "/api/v1/resumes", `{"source":"pdf","data":`+string(raw)+`}`)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	rec := decode[resume.Record](t, resp)
	assert.Equal(t, resume.SourcePDF, rec.Source)
	assert.Equal(t, "Grace Hopper", rec.Title)

	resp = s.do(t, nethttp.MethodPost, "/api/v1/resumes", `{"data":{"basics":1}}`)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(t, nethttp.MethodPost, "/api/v1/resumes/generate", `{"jobDescription":"Go developer","title":"Acme"}`)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	rec = decode[resume.Record](t, resp)
	assert.Equal(t, "Acme", rec.Title)
	assert.Equal(t, resume.SourceProfile, rec.Source)
}

func TestUserInfo(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodGet, "/api/v1/user-info", "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(raw)))

	p := resume.DefaultProfile()
	p.Basics.Name = "Ada Lovelace"
	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNoContent, s.do(t, nethttp.MethodPut, "/api/v1/user-info", string(body)).StatusCode)

	resp = s.do(t, nethttp.MethodGet, "/api/v1/user-info", "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada Lovelace", decode[resume.Profile](t, resp).Basics.Name)

	assert.Equal(t, nethttp.StatusBadRequest, s.do(t, nethttp.MethodPut, "/api/v1/user-info", "{nope").StatusCode)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, s.do(t, nethttp.MethodPut, "/api/v1/user-info", `{"basics":"x"}`).StatusCode)
}

func TestParseEndpoints(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/api/v1/ai/parse-docx",
		`{"file":{"name":"cv.doc","data":"AAAA"},"mediaType":"application/msword","credentials":{"provider":"gemini","apiKey":"g-key","model":"gemini-2.0-flash"}}`)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "cv.doc", s.parser.in.FileName)
	assert.Equal(t, "application/msword", s.parser.in.MediaType)
	require.NotNil(t, s.parser.in.Credentials)
	assert.Equal(t, llm.ProviderGemini, s.parser.in.Credentials.Provider)

	s.parser.err = &llm.GatewayError{Provider: llm.ProviderOpenAI, Err: errors.New("upstream 503")}
	resp = s.do(t, nethttp.MethodPost, "/api/v1/ai/parse-pdf", `{"file":{"name":"cv.pdf","data":"AAAA"}}`)
	assert.Equal(t, nethttp.StatusBadGateway, resp.StatusCode)

	s.parser.err = &resume.ValidationError{Fields: []resume.FieldError{{Field: "basics.name", Message: "Invalid type"}}}
	resp = s.do(t, nethttp.MethodPost, "/api/v1/ai/parse-pdf", `{"file":{"name":"cv.pdf","data":"AAAA"}}`)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTestConnection(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/api/v1/ai/test-connection", `{"provider":"openai","apiKey":"k","model":"m"}`)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	s.probe = &llm.GatewayError{Provider: llm.ProviderOpenAI, Err: errors.New("401")}
	resp = s.do(t, nethttp.MethodPost, "/api/v1/ai/test-connection", `{}`)
	assert.Equal(t, nethttp.StatusBadGateway, resp.StatusCode)

	s.probe = &llm.ConfigurationError{Reason: "no api key"}
	resp = s.do(t, nethttp.MethodPost, "/api/v1/ai/test-connection", `{}`)
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, presenter.CodeConfiguration, decode[presenter.ErrorResponse](t, resp).Code)
}

// sse splits an event stream into (name, data) pairs.
func sse(t *testing.T, body io.Reader) [][2]string {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var out [][2]string
	for _, block := range bytes.Split(raw, []byte("\n\n")) {
		var name, data string
		for _, line := range strings.Split(string(block), "\n") {
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				name = v
			}
			if v, ok := strings.CutPrefix(line, "data: "); ok {
				data = v
			}
		}
		if name != "" {
			out = append(out, [2]string{name, data})
		}
	}
	return out
}

func TestChatStream(t *testing.T) {
	s := newServer(t)
	s.model.Chunks = []string{"Done. ", `<patch>[{"op":"replace","path":"/basics/headline","value":"Lead"}]</patch>`}

	resp := s.do(t, nethttp.MethodPost, "/api/v1/ai/chat", `{"messages":[{"role":"user","content":"make it bolder"}]}`)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := sse(t, resp.Body)
	require.Len(t, events, 3)
	assert.Equal(t, "text", events[0][0])
	assert.Equal(t, "patch", events[1][0])
	assert.Contains(t, events[1][1], `"/basics/headline"`)
	assert.Equal(t, "done", events[2][0])
}

func TestChatRejectsBeforeStreaming(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/api/v1/ai/chat", `{"messages":[{"role":"assistant","content":"hi"}]}`)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, nethttp.MethodPost, "/api/v1/ai/chat", `{"provider":"anthropic","messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, presenter.CodeConfiguration, decode[presenter.ErrorResponse](t, resp).Code)

	resp = s.do(t, nethttp.MethodPost, "/api/v1/ai/chat", `{"resumeData":{"basics":7},"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestChatProviderFailureIsAnEvent(t *testing.T) {
	s := newServer(t)
	s.model.Err = errors.New("connection reset")

	resp := s.do(t, nethttp.MethodPost, "/api/v1/ai/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	events := sse(t, resp.Body)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "error", last[0])
	assert.Contains(t, last[1], presenter.CodeBadGateway)
}
