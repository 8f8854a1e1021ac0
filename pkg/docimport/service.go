// Package docimport turns PDF and Word resumes into canonical documents with
// the help of a language model.
package docimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDoc  = "application/msword"
	MediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Kind is the family of binary documents an operation accepts.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDocx Kind = "docx"
)

var accepted = map[Kind][]string{
	KindPDF:  {MediaTypePDF},
	KindDocx: {MediaTypeDoc, MediaTypeDocx},
}

var extensions = map[string]string{
	".pdf":  MediaTypePDF,
	".doc":  MediaTypeDoc,
	".docx": MediaTypeDocx,
}

// Input is one uploaded document. Data is base64 (optionally a data URL).
// Credentials, when given, override the configured defaults field by field.
type Input struct {
	FileName    string           `json:"name"`
	MediaType   string           `json:"mediaType,omitempty"`
	Data        string           `json:"data"`
	Credentials *llm.Credentials `json:"credentials,omitempty"`
}

// Archiver keeps a copy of every uploaded original.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

type Option func(*Service)

func WithArchive(a Archiver) Option { return func(s *Service) { s.archive = a } }

func WithMaxBytes(n int64) Option { return func(s *Service) { s.maxBytes = n } }

type Service struct {
	factory  llm.Factory
	defaults llm.Credentials
	archive  Archiver
	maxBytes int64
}

func NewService(factory llm.Factory, defaults llm.Credentials, opts ...Option) *Service {
	s := &Service{factory: factory, defaults: defaults, maxBytes: 15 << 20}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) ParsePDF(ctx context.Context, in Input) (resume.Document, error) {
	return s.parse(ctx, KindPDF, in)
}

// ParseDocx accepts both .docx and legacy .doc uploads.
func (s *Service) ParseDocx(ctx context.Context, in Input) (resume.Document, error) {
	return s.parse(ctx, KindDocx, in)
}

func (s *Service) parse(ctx context.Context, kind Kind, in Input) (resume.Document, error) {
	mediaType, err := mediaTypeOf(kind, in)
	if err != nil {
		return resume.Document{}, err
	}
	creds, err := llm.Resolve(in.Credentials, s.defaults)
	if err != nil {
		return resume.Document{}, err
	}
	data, err := Decode(in.Data, s.maxBytes)
	if err != nil {
		return resume.Document{}, &resume.MalformedInputError{Format: string(kind), Err: err}
	}
	s.keep(ctx, kind, in.FileName, mediaType, data)

	model, err := s.factory(ctx, creds)
	if err != nil {
		return resume.Document{}, err
	}
	req := llm.Request{
		System:     extractionPrompt,
		Schema:     resume.DocumentSchema(),
		SchemaName: "resume_data",
	}
	if model.AcceptsFiles() {
		req.Files = []llm.File{{Name: in.FileName, MediaType: mediaType, Data: data}}
		req.Messages = []llm.Message{{Role: llm.RoleUser, Content: "Extract the resume data from the attached document."}}
	} else {
		text, err := ExtractText(mediaType, data)
		if err != nil {
			return resume.Document{}, &resume.MalformedInputError{Format: string(kind), Err: err}
		}
		if text == "" {
			return resume.Document{}, &resume.MalformedInputError{Format: string(kind), Err: errors.New("document contains no extractable text")}
		}
		req.Messages = []llm.Message{{Role: llm.RoleUser, Content: "Extract the resume data from this document text:\n\n" + text}}
	}

	reply, err := model.Complete(ctx, req)
	if err != nil {
		return resume.Document{}, llm.AsGateway(model.Provider(), err)
	}
	raw, err := llm.ExtractJSON(reply)
	if err != nil {
		return resume.Document{}, llm.AsGateway(model.Provider(), err)
	}
	return toDocument(raw)
}

const extractionPrompt = `You extract structured resume data from a document.

Rules:
- Copy facts exactly as written. Never invent or embellish anything.
- Leave a field empty when the document does not contain it.
- Put each entry into the section it belongs to: work history into experience, degrees into education, and so on.
- Descriptions and the summary are HTML strings using <p>, <ul>, <li>, <strong> and <em>.
- Skill and language levels are integers from 0 to 5; use 0 when unknown.
- Hide sections that have no items.
- Item identifiers may be any non-empty strings; they are replaced afterwards.

Output only a JSON object matching the resume data schema. No markdown, no commentary.`

// toDocument lays model output over the defaults, so absent picture,
// metadata and sections take default values, and validates the raw result.
// Identifiers produced by the model are never kept.
func toDocument(raw string) (resume.Document, error) {
	data, err := resume.WithDefaults([]byte(raw))
	if err != nil {
		return resume.Document{}, &resume.ValidationError{Fields: []resume.FieldError{{Message: "model output is not a JSON object: " + err.Error()}}}
	}
	if data, err = resume.WithFreshIDs(data); err != nil {
		return resume.Document{}, err
	}
	doc, err := resume.Parse(data)
	if err != nil {
		return resume.Document{}, err
	}
	resume.HideEmptySections(&doc)
	return doc, nil
}

func mediaTypeOf(kind Kind, in Input) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(in.MediaType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" {
		mt = extensions[strings.ToLower(filepath.Ext(in.FileName))]
	}
	if mt == "" && len(accepted[kind]) > 0 {
		mt = accepted[kind][len(accepted[kind])-1]
	}
	for _, ok := range accepted[kind] {
		if mt == ok {
			return mt, nil
		}
	}
	return "", &resume.MalformedInputError{Format: string(kind), Err: fmt.Errorf("unsupported media type %q", mt)}
}

// keep archives the original on a best-effort basis.
func (s *Service) keep(ctx context.Context, kind Kind, name, mediaType string, data []byte) {
	if s.archive == nil {
		return
	}
	base := path.Base(filepath.ToSlash(name))
	if base == "." || base == "/" || base == "" {
		base = "document." + string(kind)
	}
	key := path.Join("imports", string(kind), uuid.NewString(), base)
	if err := s.archive.Put(ctx, key, mediaType, data); err != nil {
		slog.WarnContext(ctx, "archive uploaded document", "key", key, "error", err)
	}
}
