package resume

import "encoding/json"

// Document is the canonical resume data: the single representation every
// importer produces and every generator or editor consumes.
type Document struct {
	Picture        Picture         `json:"picture"`
	Basics         Basics          `json:"basics"`
	Summary        Summary         `json:"summary"`
	Sections       Sections        `json:"sections"`
	CustomSections []CustomSection `json:"customSections"`
	Metadata       json.RawMessage `json:"metadata"`
}

type Picture struct {
	Hidden       bool    `json:"hidden"`
	URL          string  `json:"url"`
	Size         float64 `json:"size"`
	Rotation     float64 `json:"rotation"`
	AspectRatio  float64 `json:"aspectRatio"`
	BorderRadius float64 `json:"borderRadius"`
	BorderColor  string  `json:"borderColor"`
	BorderWidth  float64 `json:"borderWidth"`
	ShadowColor  string  `json:"shadowColor"`
	ShadowWidth  float64 `json:"shadowWidth"`
}

type URL struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type CustomField struct {
	ID   string `json:"id"`
	Icon string `json:"icon"`
	Text string `json:"text"`
	Link string `json:"link"`
}

type Basics struct {
	Name         string        `json:"name"`
	Headline     string        `json:"headline"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Location     string        `json:"location"`
	Website      URL           `json:"website"`
	CustomFields []CustomField `json:"customFields"`
}

// Summary content is HTML.
type Summary struct {
	Title   string `json:"title"`
	Columns int    `json:"columns"`
	Hidden  bool   `json:"hidden"`
	Content string `json:"content"`
}

type ItemOptions struct {
	ShowLinkInTitle bool `json:"showLinkInTitle"`
}

// Item carries the fields shared by every section entry. It is embedded,
// so its fields are flattened into each entry's JSON object.
type Item struct {
	ID      string      `json:"id"`
	Hidden  bool        `json:"hidden"`
	Options ItemOptions `json:"options"`
}

func (i Item) ItemID() string { return i.ID }

type Section[T any] struct {
	Title   string `json:"title"`
	Columns int    `json:"columns"`
	Hidden  bool   `json:"hidden"`
	Items   []T    `json:"items"`
}

type ProfileItem struct {
	Item
	Icon     string `json:"icon"`
	Network  string `json:"network"`
	Username string `json:"username"`
	Website  URL    `json:"website"`
}

type ExperienceItem struct {
	Item
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type EducationItem struct {
	Item
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Area        string `json:"area"`
	Grade       string `json:"grade"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type ProjectItem struct {
	Item
	Name        string `json:"name"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type SkillItem struct {
	Item
	Icon        string   `json:"icon"`
	Name        string   `json:"name"`
	Proficiency string   `json:"proficiency"`
	Level       int      `json:"level"`
	Keywords    []string `json:"keywords"`
}

type LanguageItem struct {
	Item
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
	Level    int    `json:"level"`
}

type InterestItem struct {
	Item
	Icon     string   `json:"icon"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type AwardItem struct {
	Item
	Title       string `json:"title"`
	Awarder     string `json:"awarder"`
	Date        string `json:"date"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type CertificationItem struct {
	Item
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type PublicationItem struct {
	Item
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Date        string `json:"date"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type VolunteerItem struct {
	Item
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Period       string `json:"period"`
	Website      URL    `json:"website"`
	Description  string `json:"description"`
}

type ReferenceItem struct {
	Item
	Name        string `json:"name"`
	Position    string `json:"position"`
	Website     URL    `json:"website"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// Sections is the closed set of built-in sections.
type Sections struct {
	Profiles       Section[ProfileItem]       `json:"profiles"`
	Experience     Section[ExperienceItem]    `json:"experience"`
	Education      Section[EducationItem]     `json:"education"`
	Projects       Section[ProjectItem]       `json:"projects"`
	Skills         Section[SkillItem]         `json:"skills"`
	Languages      Section[LanguageItem]      `json:"languages"`
	Interests      Section[InterestItem]      `json:"interests"`
	Awards         Section[AwardItem]         `json:"awards"`
	Certifications Section[CertificationItem] `json:"certifications"`
	Publications   Section[PublicationItem]   `json:"publications"`
	Volunteer      Section[VolunteerItem]     `json:"volunteer"`
	References     Section[ReferenceItem]     `json:"references"`
}

type CustomItem struct {
	Item
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Period      string `json:"period"`
	Website     URL    `json:"website"`
	Description string `json:"description"`
}

type CustomSection struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Columns int          `json:"columns"`
	Hidden  bool         `json:"hidden"`
	Items   []CustomItem `json:"items"`
}

// SectionKeys lists the built-in sections in canonical order.
var SectionKeys = []string{
	"profiles",
	"experience",
	"education",
	"projects",
	"skills",
	"languages",
	"interests",
	"awards",
	"certifications",
	"publications",
	"volunteer",
	"references",
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	data, err := json.Marshal(d)
	if err != nil {
		return d
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return d
	}
	return out
}
