package generator

import (
	"context"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// FallbackStrategy maps the profile onto the document one to one. It is
// pure and deterministic: profile items keep their identifiers, every
// section gets a fixed title and is hidden when it has no items.
type FallbackStrategy struct{}

func (FallbackStrategy) Generate(_ context.Context, p resume.Profile, _ string) (resume.Document, error) {
	return FromProfile(p), nil
}

// FromProfile is the deterministic profile-to-document mapping.
func FromProfile(p resume.Profile) resume.Document {
	doc := resume.DefaultDocument()
	doc.Picture = p.Picture
	doc.Basics = p.Basics
	doc.Basics.CustomFields = append([]resume.CustomField{}, p.Basics.CustomFields...)
	doc.Summary = resume.Summary{
		Title:   "Summary",
		Columns: 1,
		Hidden:  p.Summary == "",
		Content: p.Summary,
	}
	s := &doc.Sections
	s.Profiles = section("Profiles", p.Profiles)
	s.Experience = section("Experience", p.Experience)
	s.Education = section("Education", p.Education)
	s.Projects = section("Projects", p.Projects)
	s.Skills = section("Skills", p.Skills)
	s.Languages = section("Languages", p.Languages)
	s.Interests = section("Interests", p.Interests)
	s.Awards = section("Achievements", p.Awards)
	s.Certifications = section("Certifications", p.Certifications)
	s.Publications = section("Publications", p.Publications)
	s.Volunteer = section("Volunteer Experience", p.Volunteer)
	s.References = section("References", p.References)
	doc.Normalize()
	return doc
}

func section[T any](title string, items []T) resume.Section[T] {
	out := make([]T, len(items))
	copy(out, items)
	return resume.Section[T]{Title: title, Columns: 1, Hidden: len(items) == 0, Items: out}
}
