package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

// AIStrategy asks a language model to write a tailored resume. Any failure
// (model, parsing, validation) is returned; the Generator decides what next.
type AIStrategy struct {
	factory llm.Factory
	creds   llm.Credentials
}

func NewAIStrategy(factory llm.Factory, creds llm.Credentials) *AIStrategy {
	return &AIStrategy{factory: factory, creds: creds}
}

func (s *AIStrategy) Generate(ctx context.Context, p resume.Profile, jobDescription string) (resume.Document, error) {
	model, err := s.factory(ctx, s.creds)
	if err != nil {
		return resume.Document{}, err
	}
	prompt, err := userPrompt(p, jobDescription)
	if err != nil {
		return resume.Document{}, err
	}
	reply, err := model.Complete(ctx, llm.Request{
		System:     systemPrompt,
		Messages:   []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:     resume.DocumentSchema(),
		SchemaName: "resume_data",
	})
	if err != nil {
		return resume.Document{}, llm.AsGateway(model.Provider(), err)
	}
	raw, err := llm.ExtractJSON(reply)
	if err != nil {
		return resume.Document{}, llm.AsGateway(model.Provider(), err)
	}
	return splice(raw, p)
}

// splice overrides the parts the model must not decide: the picture comes
// from the profile, layout metadata from the defaults, and custom sections
// start empty. The result is validated again.
func splice(raw string, p resume.Profile) (resume.Document, error) {
	picture, err := json.Marshal(p.Picture)
	if err != nil {
		return resume.Document{}, err
	}
	for _, set := range []struct{ path, value string }{
		{"picture", string(picture)},
		{"metadata", string(resume.DefaultMetadata())},
		{"customSections", "[]"},
	} {
		if raw, err = sjson.SetRaw(raw, set.path, set.value); err != nil {
			return resume.Document{}, fmt.Errorf("splice %s: %w", set.path, err)
		}
	}

	doc := resume.DefaultDocument()
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return resume.Document{}, &resume.ValidationError{Fields: []resume.FieldError{{Message: err.Error()}}}
	}
	doc.Normalize()
	resume.EnsureItemIDs(&doc)
	if err := resume.Validate(doc); err != nil {
		return resume.Document{}, err
	}
	return doc, nil
}
