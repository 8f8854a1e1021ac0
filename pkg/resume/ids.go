package resume

import (
	"strconv"

	"github.com/google/uuid"
)

// NewID returns a fresh item identifier.
func NewID() string { return uuid.NewString() }

func (i *Item) base() *Item { return i }

func (i *Item) SetHidden(hidden bool) { i.Hidden = hidden }

type itemPtr[T any] interface {
	*T
	base() *Item
}

func eachItem[T any, P itemPtr[T]](prefix string, items []T, fn func(path string, it *Item)) {
	for i := range items {
		fn(prefix+"."+strconv.Itoa(i), P(&items[i]).base())
	}
}

// walkItems visits every item of every built-in and custom section together
// with its dotted path. Items sharing an array share a path prefix.
func (d *Document) walkItems(fn func(array, path string, it *Item)) {
	visit := func(array string) func(string, *Item) {
		return func(path string, it *Item) { fn(array, path, it) }
	}
	s := &d.Sections
	eachItem("sections.profiles.items", s.Profiles.Items, visit("sections.profiles.items"))
	eachItem("sections.experience.items", s.Experience.Items, visit("sections.experience.items"))
	eachItem("sections.education.items", s.Education.Items, visit("sections.education.items"))
	eachItem("sections.projects.items", s.Projects.Items, visit("sections.projects.items"))
	eachItem("sections.skills.items", s.Skills.Items, visit("sections.skills.items"))
	eachItem("sections.languages.items", s.Languages.Items, visit("sections.languages.items"))
	eachItem("sections.interests.items", s.Interests.Items, visit("sections.interests.items"))
	eachItem("sections.awards.items", s.Awards.Items, visit("sections.awards.items"))
	eachItem("sections.certifications.items", s.Certifications.Items, visit("sections.certifications.items"))
	eachItem("sections.publications.items", s.Publications.Items, visit("sections.publications.items"))
	eachItem("sections.volunteer.items", s.Volunteer.Items, visit("sections.volunteer.items"))
	eachItem("sections.references.items", s.References.Items, visit("sections.references.items"))
	for i := range d.CustomSections {
		prefix := "customSections." + strconv.Itoa(i) + ".items"
		eachItem(prefix, d.CustomSections[i].Items, visit(prefix))
	}
}

// RegenerateItemIDs replaces every identifier in the document (items, custom
// fields and custom sections) with a fresh one.
func RegenerateItemIDs(d *Document) {
	d.walkItems(func(_, _ string, it *Item) { it.ID = NewID() })
	for i := range d.Basics.CustomFields {
		d.Basics.CustomFields[i].ID = NewID()
	}
	for i := range d.CustomSections {
		d.CustomSections[i].ID = NewID()
	}
}

// EnsureItemIDs assigns fresh identifiers to items whose id is empty or
// already used by an earlier item of the same array. Valid ids are kept.
func EnsureItemIDs(d *Document) {
	seen := map[string]map[string]bool{}
	d.walkItems(func(array, _ string, it *Item) {
		ids := seen[array]
		if ids == nil {
			ids = map[string]bool{}
			seen[array] = ids
		}
		if it.ID == "" || ids[it.ID] {
			it.ID = NewID()
		}
		ids[it.ID] = true
	})
	fields := map[string]bool{}
	for i := range d.Basics.CustomFields {
		f := &d.Basics.CustomFields[i]
		if f.ID == "" || fields[f.ID] {
			f.ID = NewID()
		}
		fields[f.ID] = true
	}
	sections := map[string]bool{}
	for i := range d.CustomSections {
		cs := &d.CustomSections[i]
		if cs.ID == "" || sections[cs.ID] {
			cs.ID = NewID()
		}
		sections[cs.ID] = true
	}
}

// duplicateIDs reports every item whose identifier repeats within its array.
func (d *Document) duplicateIDs() []FieldError {
	var out []FieldError
	seen := map[string]map[string]bool{}
	d.walkItems(func(array, path string, it *Item) {
		ids := seen[array]
		if ids == nil {
			ids = map[string]bool{}
			seen[array] = ids
		}
		if it.ID != "" && ids[it.ID] {
			out = append(out, FieldError{Field: path + ".id", Message: "duplicate id " + strconv.Quote(it.ID)})
		}
		ids[it.ID] = true
	})
	fields := map[string]bool{}
	for i, f := range d.Basics.CustomFields {
		if f.ID != "" && fields[f.ID] {
			out = append(out, FieldError{Field: "basics.customFields." + strconv.Itoa(i) + ".id", Message: "duplicate id " + strconv.Quote(f.ID)})
		}
		fields[f.ID] = true
	}
	sections := map[string]bool{}
	for i, cs := range d.CustomSections {
		if cs.ID != "" && sections[cs.ID] {
			out = append(out, FieldError{Field: "customSections." + strconv.Itoa(i) + ".id", Message: "duplicate id " + strconv.Quote(cs.ID)})
		}
		sections[cs.ID] = true
	}
	return out
}
