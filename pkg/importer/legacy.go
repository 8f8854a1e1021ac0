package importer

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// ReactiveResumeV4 imports the previous internal format. It also understands
// the older v3 layout where experience lived under sections.work, dates were
// {start,end} objects and urls were plain strings.
type ReactiveResumeV4 struct{}

func (ReactiveResumeV4) Format() Format { return FormatReactiveResumeV4 }

func (ReactiveResumeV4) Parse(raw string) (resume.Document, error) {
	in, err := root(FormatReactiveResumeV4, raw, "basics", "sections")
	if err != nil {
		return resume.Document{}, err
	}
	basics := in.Get("basics")
	sections := in.Get("sections")

	doc := resume.DefaultDocument()
	doc.Picture = legacyPicture(basics.Get("picture"))
	doc.Basics = resume.Basics{
		Name:         str(basics, "name"),
		Headline:     str(basics, "headline", "label"),
		Email:        str(basics, "email"),
		Phone:        str(basics, "phone"),
		Location:     place(basics, "location"),
		Website:      link(basics, "url", "website"),
		CustomFields: []resume.CustomField{},
	}
	for _, f := range basics.Get("customFields").Array() {
		text := str(f, "value", "text")
		if name := str(f, "name"); name != "" && text != "" && !strings.EqualFold(name, text) {
			text = name + ": " + text
		} else if text == "" {
			text = name
		}
		doc.Basics.CustomFields = append(doc.Basics.CustomFields, resume.CustomField{
			Icon: str(f, "icon"),
			Text: text,
			Link: str(f, "link"),
		})
	}

	summary := sections.Get("summary")
	doc.Summary = resume.Summary{
		Title:   orDefault(str(summary, "name", "title"), "Summary"),
		Columns: columns(summary, "columns"),
		Hidden:  !boolOr(summary, "visible", true),
		Content: paragraphs(str(summary, "content")),
	}
	if doc.Summary.Content == "" {
		doc.Summary.Content = paragraphs(str(basics, "summary"))
	}

	s := &doc.Sections
	legacySection(sections, []string{"profiles"}, &s.Profiles, func(it gjson.Result) resume.ProfileItem {
		network := str(it, "network")
		return resume.ProfileItem{
			Icon:     orDefault(str(it, "icon"), iconFor(network)),
			Network:  network,
			Username: str(it, "username"),
			Website:  link(it, "url"),
		}
	})
	legacySection(sections, []string{"experience", "work"}, &s.Experience, func(it gjson.Result) resume.ExperienceItem {
		return resume.ExperienceItem{
			Company:     str(it, "company", "name"),
			Position:    str(it, "position"),
			Location:    place(it, "location"),
			Period:      dateOrRange(it, "date"),
			Website:     link(it, "url", "website"),
			Description: paragraphs(str(it, "summary")),
		}
	})
	legacySection(sections, []string{"education"}, &s.Education, func(it gjson.Result) resume.EducationItem {
		return resume.EducationItem{
			School:      str(it, "institution"),
			Degree:      str(it, "studyType", "degree"),
			Area:        str(it, "area"),
			Grade:       str(it, "score", "gpa"),
			Location:    place(it, "location"),
			Period:      dateOrRange(it, "date"),
			Website:     link(it, "url"),
			Description: paragraphs(str(it, "summary")),
		}
	})
	legacySection(sections, []string{"projects"}, &s.Projects, func(it gjson.Result) resume.ProjectItem {
		desc := paragraphs(str(it, "description"))
		if summary := paragraphs(str(it, "summary")); summary != "" {
			desc += summary
		}
		return resume.ProjectItem{
			Name:        str(it, "name"),
			Period:      dateOrRange(it, "date"),
			Website:     link(it, "url"),
			Description: desc,
		}
	})
	legacySection(sections, []string{"skills"}, &s.Skills, func(it gjson.Result) resume.SkillItem {
		return resume.SkillItem{
			Icon:        str(it, "icon"),
			Name:        str(it, "name"),
			Proficiency: str(it, "description"),
			Level:       level(it, "level"),
			Keywords:    stringList(it, "keywords"),
		}
	})
	legacySection(sections, []string{"languages"}, &s.Languages, func(it gjson.Result) resume.LanguageItem {
		return resume.LanguageItem{
			Language: str(it, "name"),
			Fluency:  str(it, "description", "fluency"),
			Level:    level(it, "level"),
		}
	})
	legacySection(sections, []string{"interests"}, &s.Interests, func(it gjson.Result) resume.InterestItem {
		return resume.InterestItem{
			Icon:     str(it, "icon"),
			Name:     str(it, "name"),
			Keywords: stringList(it, "keywords"),
		}
	})
	legacySection(sections, []string{"awards"}, &s.Awards, func(it gjson.Result) resume.AwardItem {
		return resume.AwardItem{
			Title:       str(it, "title", "name"),
			Awarder:     str(it, "awarder"),
			Date:        dateOrRange(it, "date"),
			Website:     link(it, "url"),
			Description: paragraphs(str(it, "summary")),
		}
	})
	legacySection(sections, []string{"certifications"}, &s.Certifications, func(it gjson.Result) resume.CertificationItem {
		return resume.CertificationItem{
			Title:       str(it, "name", "title"),
			Issuer:      str(it, "issuer"),
			Date:        dateOrRange(it, "date"),
			Website:     link(it, "url"),
			Description: paragraphs(str(it, "summary")),
		}
	})
	legacySection(sections, []string{"publications"}, &s.Publications, func(it gjson.Result) resume.PublicationItem {
		return resume.PublicationItem{
			Title:       str(it, "name", "title"),
			Publisher:   str(it, "publisher"),
			Date:        dateOrRange(it, "date"),
			Website:     link(it, "url"),
			Description: paragraphs(str(it, "summary")),
		}
	})
	legacySection(sections, []string{"volunteer"}, &s.Volunteer, func(it gjson.Result) resume.VolunteerItem {
		desc := paragraphs(str(it, "summary"))
		if pos := str(it, "position"); pos != "" {
			desc = paragraphs(pos) + desc
		}
		return resume.VolunteerItem{
			Organization: str(it, "organization"),
			Location:     place(it, "location"),
			Period:       dateOrRange(it, "date"),
			Website:      link(it, "url"),
			Description:  desc,
		}
	})
	legacySection(sections, []string{"references"}, &s.References, func(it gjson.Result) resume.ReferenceItem {
		return resume.ReferenceItem{
			Name:        str(it, "name"),
			Position:    str(it, "description", "position"),
			Website:     link(it, "url"),
			Phone:       str(it, "phone"),
			Description: paragraphs(str(it, "summary")),
		}
	})

	sections.Get("custom").ForEach(func(k, cs gjson.Result) bool {
		key := k.String()
		custom := resume.CustomSection{
			Title:   orDefault(str(cs, "name", "title"), key),
			Columns: columns(cs, "columns"),
			Hidden:  !boolOr(cs, "visible", true),
			Items:   []resume.CustomItem{},
		}
		for _, it := range cs.Get("items").Array() {
			custom.Items = append(custom.Items, resume.CustomItem{
				Item:        resume.Item{Hidden: !boolOr(it, "visible", true)},
				Title:       str(it, "name", "title"),
				Subtitle:    str(it, "description"),
				Period:      dateOrRange(it, "date"),
				Website:     link(it, "url"),
				Description: paragraphs(str(it, "summary")),
			})
		}
		doc.CustomSections = append(doc.CustomSections, custom)
		return true
	})

	return finish(doc)
}

func legacyPicture(p gjson.Result) resume.Picture {
	pic := resume.DefaultPicture()
	if p.Type == gjson.String {
		pic.URL = strings.TrimSpace(p.String())
		return pic
	}
	if !p.IsObject() {
		return pic
	}
	pic.URL = str(p, "url")
	if v := p.Get("size"); v.Type == gjson.Number && v.Float() > 0 {
		pic.Size = v.Float()
	}
	if v := p.Get("aspectRatio"); v.Type == gjson.Number && v.Float() > 0 {
		pic.AspectRatio = v.Float()
	}
	if v := p.Get("borderRadius"); v.Type == gjson.Number && v.Float() >= 0 {
		pic.BorderRadius = v.Float()
	}
	pic.Hidden = boolOr(p, "effects.hidden", false)
	if boolOr(p, "effects.border", false) {
		pic.BorderWidth = 1
	}
	return pic
}

// legacySection fills dst from the first of keys present in sections.
// Missing sections stay empty; item visibility maps onto hidden.
func legacySection[T any, P interface {
	*T
	SetHidden(hidden bool)
}](sections gjson.Result, keys []string, dst *resume.Section[T], mapItem func(gjson.Result) T) {
	var src gjson.Result
	for _, k := range keys {
		if v := sections.Get(k); v.Exists() {
			src = v
			break
		}
	}
	if !src.Exists() {
		return
	}
	if title := str(src, "name", "title", "heading"); title != "" {
		dst.Title = title
	}
	dst.Columns = columns(src, "columns")
	dst.Hidden = !boolOr(src, "visible", true)
	for _, it := range src.Get("items").Array() {
		item := mapItem(it)
		P(&item).SetHidden(!boolOr(it, "visible", true))
		dst.Items = append(dst.Items, item)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
