package resume

// Profile is the user's master profile: everything they want reused when a
// new resume is created. Items carry the same shape as document items.
type Profile struct {
	Picture        Picture             `json:"picture"`
	Basics         Basics              `json:"basics"`
	Summary        string              `json:"summary"`
	Profiles       []ProfileItem       `json:"profiles"`
	Experience     []ExperienceItem    `json:"experience"`
	Education      []EducationItem     `json:"education"`
	Projects       []ProjectItem       `json:"projects"`
	Skills         []SkillItem         `json:"skills"`
	Languages      []LanguageItem      `json:"languages"`
	Interests      []InterestItem      `json:"interests"`
	Awards         []AwardItem         `json:"awards"`
	Certifications []CertificationItem `json:"certifications"`
	Publications   []PublicationItem   `json:"publications"`
	Volunteer      []VolunteerItem     `json:"volunteer"`
	References     []ReferenceItem     `json:"references"`
}

// DefaultProfile returns an empty master profile.
func DefaultProfile() Profile {
	p := Profile{Picture: DefaultPicture(), Basics: DefaultBasics()}
	p.Normalize()
	return p
}

// Normalize replaces nil slices with empty ones.
func (p *Profile) Normalize() {
	nonNil(&p.Basics.CustomFields)
	nonNil(&p.Profiles)
	nonNil(&p.Experience)
	nonNil(&p.Education)
	nonNil(&p.Projects)
	nonNil(&p.Skills)
	for i := range p.Skills {
		nonNil(&p.Skills[i].Keywords)
	}
	nonNil(&p.Languages)
	nonNil(&p.Interests)
	for i := range p.Interests {
		nonNil(&p.Interests[i].Keywords)
	}
	nonNil(&p.Awards)
	nonNil(&p.Certifications)
	nonNil(&p.Publications)
	nonNil(&p.Volunteer)
	nonNil(&p.References)
}

// Empty reports whether the profile carries no content at all.
func (p Profile) Empty() bool {
	b := p.Basics
	return b.Name == "" && b.Headline == "" && b.Email == "" && b.Phone == "" && b.Location == "" &&
		p.Summary == "" && len(p.Profiles) == 0 && len(p.Experience) == 0 && len(p.Education) == 0 &&
		len(p.Projects) == 0 && len(p.Skills) == 0 && len(p.Languages) == 0 && len(p.Interests) == 0 &&
		len(p.Awards) == 0 && len(p.Certifications) == 0 && len(p.Publications) == 0 &&
		len(p.Volunteer) == 0 && len(p.References) == 0
}

func (p *Profile) duplicateIDs() []FieldError {
	var out []FieldError
	check := func(array string) func(string, *Item) {
		ids := map[string]bool{}
		return func(path string, it *Item) {
			if it.ID != "" && ids[it.ID] {
				out = append(out, FieldError{Field: path + ".id", Message: "duplicate id \"" + it.ID + "\""})
			}
			ids[it.ID] = true
		}
	}
	eachItem("profiles", p.Profiles, check("profiles"))
	eachItem("experience", p.Experience, check("experience"))
	eachItem("education", p.Education, check("education"))
	eachItem("projects", p.Projects, check("projects"))
	eachItem("skills", p.Skills, check("skills"))
	eachItem("languages", p.Languages, check("languages"))
	eachItem("interests", p.Interests, check("interests"))
	eachItem("awards", p.Awards, check("awards"))
	eachItem("certifications", p.Certifications, check("certifications"))
	eachItem("publications", p.Publications, check("publications"))
	eachItem("volunteer", p.Volunteer, check("volunteer"))
	eachItem("references", p.References, check("references"))
	return out
}
