// Package generator builds a canonical resume from a master profile,
// optionally tailored to a job description.
package generator

import (
	"context"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// Strategy produces a resume document from a profile.
type Strategy interface {
	Generate(ctx context.Context, profile resume.Profile, jobDescription string) (resume.Document, error)
}

// Mode names the strategy a Generator will try first.
type Mode string

const (
	ModeAI       Mode = "ai"
	ModeFallback Mode = "fallback"
)
