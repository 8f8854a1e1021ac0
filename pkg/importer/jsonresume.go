package importer

import (
	"github.com/tidwall/gjson"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// JSONResume imports documents following the jsonresume.org schema,
// including field names used by its earlier drafts.
type JSONResume struct{}

func (JSONResume) Format() Format { return FormatJSONResume }

func (JSONResume) Parse(raw string) (resume.Document, error) {
	in, err := root(FormatJSONResume, raw, "basics")
	if err != nil {
		return resume.Document{}, err
	}
	basics := in.Get("basics")

	doc := resume.DefaultDocument()
	doc.Picture.URL = str(basics, "image", "picture")
	doc.Basics = resume.Basics{
		Name:         str(basics, "name"),
		Headline:     str(basics, "label"),
		Email:        str(basics, "email"),
		Phone:        str(basics, "phone"),
		Location:     place(basics, "location"),
		Website:      link(basics, "url", "website"),
		CustomFields: []resume.CustomField{},
	}
	doc.Summary.Content = paragraphs(str(basics, "summary"))
	doc.Summary.Hidden = doc.Summary.Content == ""

	s := &doc.Sections
	collect(basics, "profiles", &s.Profiles, func(it gjson.Result) resume.ProfileItem {
		network := str(it, "network")
		return resume.ProfileItem{
			Icon:     iconFor(network),
			Network:  network,
			Username: str(it, "username"),
			Website:  link(it, "url"),
		}
	})
	collect(in, "work", &s.Experience, func(it gjson.Result) resume.ExperienceItem {
		return resume.ExperienceItem{
			Company:     str(it, "name", "company"),
			Position:    str(it, "position"),
			Location:    place(it, "location"),
			Period:      period(str(it, "startDate"), str(it, "endDate")),
			Website:     link(it, "url", "website"),
			Description: richText(str(it, "summary", "description"), stringList(it, "highlights")),
		}
	})
	collect(in, "volunteer", &s.Volunteer, func(it gjson.Result) resume.VolunteerItem {
		desc := richText(str(it, "summary"), stringList(it, "highlights"))
		if pos := str(it, "position"); pos != "" {
			desc = paragraphs(pos) + desc
		}
		return resume.VolunteerItem{
			Organization: str(it, "organization"),
			Period:       period(str(it, "startDate"), str(it, "endDate")),
			Website:      link(it, "url", "website"),
			Description:  desc,
		}
	})
	collect(in, "education", &s.Education, func(it gjson.Result) resume.EducationItem {
		return resume.EducationItem{
			School:      str(it, "institution"),
			Degree:      str(it, "studyType"),
			Area:        str(it, "area"),
			Grade:       str(it, "score", "gpa"),
			Period:      period(str(it, "startDate"), str(it, "endDate")),
			Website:     link(it, "url"),
			Description: bullets(stringList(it, "courses")),
		}
	})
	collect(in, "awards", &s.Awards, func(it gjson.Result) resume.AwardItem {
		return resume.AwardItem{
			Title:       str(it, "title"),
			Awarder:     str(it, "awarder"),
			Date:        formatDate(str(it, "date")),
			Description: paragraphs(str(it, "summary")),
		}
	})
	collect(in, "certificates", &s.Certifications, func(it gjson.Result) resume.CertificationItem {
		return resume.CertificationItem{
			Title:   str(it, "name"),
			Issuer:  str(it, "issuer"),
			Date:    formatDate(str(it, "date")),
			Website: link(it, "url"),
		}
	})
	collect(in, "publications", &s.Publications, func(it gjson.Result) resume.PublicationItem {
		return resume.PublicationItem{
			Title:       str(it, "name"),
			Publisher:   str(it, "publisher"),
			Date:        formatDate(str(it, "releaseDate", "date")),
			Website:     link(it, "url", "website"),
			Description: paragraphs(str(it, "summary")),
		}
	})
	collect(in, "skills", &s.Skills, func(it gjson.Result) resume.SkillItem {
		return resume.SkillItem{
			Name:        str(it, "name"),
			Proficiency: str(it, "level"),
			Level:       level(it, "level"),
			Keywords:    stringList(it, "keywords"),
		}
	})
	collect(in, "languages", &s.Languages, func(it gjson.Result) resume.LanguageItem {
		return resume.LanguageItem{
			Language: str(it, "language", "name"),
			Fluency:  str(it, "fluency", "level"),
			Level:    level(it, "fluency"),
		}
	})
	collect(in, "interests", &s.Interests, func(it gjson.Result) resume.InterestItem {
		return resume.InterestItem{
			Name:     str(it, "name"),
			Keywords: stringList(it, "keywords"),
		}
	})
	collect(in, "references", &s.References, func(it gjson.Result) resume.ReferenceItem {
		return resume.ReferenceItem{
			Name:        str(it, "name"),
			Description: paragraphs(str(it, "reference")),
		}
	})
	collect(in, "projects", &s.Projects, func(it gjson.Result) resume.ProjectItem {
		return resume.ProjectItem{
			Name:        str(it, "name"),
			Period:      period(str(it, "startDate"), str(it, "endDate")),
			Website:     link(it, "url"),
			Description: richText(str(it, "description"), stringList(it, "highlights")),
		}
	})

	for _, sec := range []*bool{
		&s.Profiles.Hidden, &s.Experience.Hidden, &s.Volunteer.Hidden, &s.Education.Hidden,
		&s.Awards.Hidden, &s.Certifications.Hidden, &s.Publications.Hidden, &s.Skills.Hidden,
		&s.Languages.Hidden, &s.Interests.Hidden, &s.References.Hidden, &s.Projects.Hidden,
	} {
		*sec = false
	}
	return finish(doc)
}

// collect maps every element of the array at path into dst.
func collect[T any](r gjson.Result, path string, dst *resume.Section[T], mapItem func(gjson.Result) T) {
	for _, it := range r.Get(path).Array() {
		if !it.IsObject() {
			continue
		}
		dst.Items = append(dst.Items, mapItem(it))
	}
}
