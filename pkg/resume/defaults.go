package resume

import (
	_ "embed"
	"encoding/json"
)

//go:embed schema/metadata.json
var defaultMetadata []byte

// Default section titles used by blank documents.
var defaultTitles = map[string]string{
	"profiles":       "Profiles",
	"experience":     "Experience",
	"education":      "Education",
	"projects":       "Projects",
	"skills":         "Skills",
	"languages":      "Languages",
	"interests":      "Interests",
	"awards":         "Awards",
	"certifications": "Certifications",
	"publications":   "Publications",
	"volunteer":      "Volunteer",
	"references":     "References",
}

func DefaultPicture() Picture {
	return Picture{
		URL:         "",
		Size:        80,
		AspectRatio: 1,
		BorderColor: "rgba(0, 0, 0, 0.5)",
		ShadowColor: "rgba(0, 0, 0, 0.5)",
	}
}

func DefaultBasics() Basics {
	return Basics{CustomFields: []CustomField{}}
}

// DefaultMetadata returns a fresh copy of the default layout/design metadata.
func DefaultMetadata() json.RawMessage {
	out := make(json.RawMessage, len(defaultMetadata))
	copy(out, defaultMetadata)
	return out
}

func emptySection[T any](key string) Section[T] {
	return Section[T]{Title: defaultTitles[key], Columns: 1, Hidden: true, Items: []T{}}
}

// DefaultDocument returns an empty document: every section present, empty and hidden.
func DefaultDocument() Document {
	return Document{
		Picture: DefaultPicture(),
		Basics:  DefaultBasics(),
		Summary: Summary{Title: "Summary", Columns: 1},
		Sections: Sections{
			Profiles:       emptySection[ProfileItem]("profiles"),
			Experience:     emptySection[ExperienceItem]("experience"),
			Education:      emptySection[EducationItem]("education"),
			Projects:       emptySection[ProjectItem]("projects"),
			Skills:         emptySection[SkillItem]("skills"),
			Languages:      emptySection[LanguageItem]("languages"),
			Interests:      emptySection[InterestItem]("interests"),
			Awards:         emptySection[AwardItem]("awards"),
			Certifications: emptySection[CertificationItem]("certifications"),
			Publications:   emptySection[PublicationItem]("publications"),
			Volunteer:      emptySection[VolunteerItem]("volunteer"),
			References:     emptySection[ReferenceItem]("references"),
		},
		CustomSections: []CustomSection{},
		Metadata:       DefaultMetadata(),
	}
}

// Normalize replaces nil slices with empty ones so that documents always
// serialize arrays as [] and never as null. Absent metadata takes defaults.
func (d *Document) Normalize() {
	if d.Basics.CustomFields == nil {
		d.Basics.CustomFields = []CustomField{}
	}
	if d.CustomSections == nil {
		d.CustomSections = []CustomSection{}
	}
	for i := range d.CustomSections {
		if d.CustomSections[i].Items == nil {
			d.CustomSections[i].Items = []CustomItem{}
		}
		if d.CustomSections[i].Columns == 0 {
			d.CustomSections[i].Columns = 1
		}
	}
	if len(d.Metadata) == 0 || string(d.Metadata) == "null" {
		d.Metadata = DefaultMetadata()
	}
	s := &d.Sections
	nonNil(&s.Profiles.Items)
	nonNil(&s.Experience.Items)
	nonNil(&s.Education.Items)
	nonNil(&s.Projects.Items)
	nonNil(&s.Languages.Items)
	nonNil(&s.Awards.Items)
	nonNil(&s.Certifications.Items)
	nonNil(&s.Publications.Items)
	nonNil(&s.Volunteer.Items)
	nonNil(&s.References.Items)
	nonNil(&s.Skills.Items)
	for i := range s.Skills.Items {
		nonNil(&s.Skills.Items[i].Keywords)
	}
	nonNil(&s.Interests.Items)
	for i := range s.Interests.Items {
		nonNil(&s.Interests.Items[i].Keywords)
	}
}

func nonNil[T any](items *[]T) {
	if *items == nil {
		*items = []T{}
	}
}

// HideEmptySections hides every built-in section without items.
func HideEmptySections(d *Document) {
	s := &d.Sections
	hideEmpty(&s.Profiles)
	hideEmpty(&s.Experience)
	hideEmpty(&s.Education)
	hideEmpty(&s.Projects)
	hideEmpty(&s.Skills)
	hideEmpty(&s.Languages)
	hideEmpty(&s.Interests)
	hideEmpty(&s.Awards)
	hideEmpty(&s.Certifications)
	hideEmpty(&s.Publications)
	hideEmpty(&s.Volunteer)
	hideEmpty(&s.References)
}

func hideEmpty[T any](s *Section[T]) {
	nonNil(&s.Items)
	if len(s.Items) == 0 {
		s.Hidden = true
	}
}
