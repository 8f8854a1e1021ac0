package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

// Generator tries the AI strategy when one is configured and falls back to
// the deterministic mapping on any failure. Only an invalid profile is
// reported to the caller.
type Generator struct {
	ai       Strategy
	fallback Strategy
}

// New enables the AI strategy when the default credentials resolve to a
// usable provider, model and key.
func New(factory llm.Factory, defaults llm.Credentials) *Generator {
	g := &Generator{fallback: FallbackStrategy{}}
	if factory == nil {
		return g
	}
	creds, err := llm.Resolve(nil, defaults)
	if err != nil {
		slog.Info("resume generation uses the deterministic mapping", "reason", err.Error())
		return g
	}
	g.ai = NewAIStrategy(factory, creds)
	return g
}

// NewWithStrategies wires explicit strategies; ai may be nil.
func NewWithStrategies(ai, fallback Strategy) *Generator {
	if fallback == nil {
		fallback = FallbackStrategy{}
	}
	return &Generator{ai: ai, fallback: fallback}
}

func (g *Generator) Mode() Mode {
	if g.ai != nil {
		return ModeAI
	}
	return ModeFallback
}

func (g *Generator) Generate(ctx context.Context, p resume.Profile, jobDescription string) (resume.Document, error) {
	if err := resume.ValidateProfile(p); err != nil {
		return resume.Document{}, err
	}
	if g.ai != nil {
		doc, err := g.tryAI(ctx, p, jobDescription)
		if err == nil {
			return doc, nil
		}
		slog.WarnContext(ctx, "ai resume generation failed, using deterministic mapping", "error", err)
	}
	doc, err := g.fallback.Generate(ctx, p, jobDescription)
	if err != nil {
		return resume.Document{}, err
	}
	if err := resume.Validate(doc); err != nil {
		return resume.Document{}, err
	}
	return doc, nil
}

// tryAI turns a panic inside the AI strategy into an ordinary failure so the
// deterministic mapping still runs.
func (g *Generator) tryAI(ctx context.Context, p resume.Profile, jobDescription string) (doc resume.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = resume.Document{}, fmt.Errorf("ai strategy panicked: %v", r)
		}
	}()
	return g.ai.Generate(ctx, p, jobDescription)
}
