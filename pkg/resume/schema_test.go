package resume

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDocumentIsValid(t *testing.T) {
	doc := DefaultDocument()
	require.NoError(t, Validate(doc))

	assert.True(t, doc.Sections.Experience.Hidden)
	assert.True(t, doc.Sections.References.Hidden)
	assert.Empty(t, doc.Sections.Skills.Items)
	assert.Equal(t, 80.0, doc.Picture.Size)
	assert.Equal(t, "rgba(0, 0, 0, 0.5)", doc.Picture.BorderColor)
}

func TestParseFillsAbsentParts(t *testing.T) {
	raw, err := json.Marshal(DefaultDocument())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	delete(m, "picture")
	delete(m, "metadata")
	delete(m, "customSections")
	raw, err = json.Marshal(m)
	require.NoError(t, err)

	doc, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultPicture(), doc.Picture)
	assert.JSONEq(t, string(DefaultMetadata()), string(doc.Metadata))
	assert.NotNil(t, doc.CustomSections)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"basics":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestParseReportsEveryOffendingField(t *testing.T) {
	doc := DefaultDocument()
	doc.Sections.Skills.Items = []SkillItem{{Item: Item{ID: "s1"}, Name: "Go", Level: 9}}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	m["summary"].(map[string]any)["columns"] = "two"
	delete(m["sections"].(map[string]any), "education")
	raw, err = json.Marshal(m)
	require.NoError(t, err)

	_, err = Parse(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.Is(err, ErrValidation))
	paths := verr.Paths()
	assert.Contains(t, paths, "summary.columns")
	assert.Contains(t, paths, "sections.education")
	assert.Contains(t, paths, "sections.skills.items.0.level")
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	doc := DefaultDocument()
	doc.Sections.Experience.Items = []ExperienceItem{
		{Item: Item{ID: "a"}, Company: "Acme"},
		{Item: Item{ID: "a"}, Company: "Globex"},
	}
	// the same id in another section is fine
	doc.Sections.Projects.Items = []ProjectItem{{Item: Item{ID: "a"}, Name: "X"}}

	err := Validate(doc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"sections.experience.items.1.id"}, verr.Paths())
}

func TestParseRejectsEmptyItemID(t *testing.T) {
	doc := DefaultDocument()
	doc.Sections.Languages.Items = []LanguageItem{{Language: "German"}}

	err := Validate(doc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Paths(), "sections.languages.items.0.id")
}

func TestEnsureItemIDs(t *testing.T) {
	doc := DefaultDocument()
	doc.Sections.Skills.Items = []SkillItem{
		{Item: Item{ID: "keep"}, Name: "Go"},
		{Item: Item{ID: "keep"}, Name: "Rust"},
		{Name: "Zig"},
	}
	EnsureItemIDs(&doc)

	items := doc.Sections.Skills.Items
	assert.Equal(t, "keep", items[0].ID)
	assert.NotEqual(t, "keep", items[1].ID)
	assert.NotEmpty(t, items[2].ID)
	assert.NoError(t, Validate(doc))
}

func TestRegenerateItemIDs(t *testing.T) {
	doc := DefaultDocument()
	doc.Basics.CustomFields = []CustomField{{ID: "cf", Text: "x"}}
	doc.Sections.Awards.Items = []AwardItem{{Item: Item{ID: "old"}, Title: "Prize"}}
	doc.CustomSections = []CustomSection{{ID: "cs", Title: "Talks", Columns: 1, Items: []CustomItem{{Item: Item{ID: "ci"}}}}}

	RegenerateItemIDs(&doc)

	assert.NotEqual(t, "cf", doc.Basics.CustomFields[0].ID)
	assert.NotEqual(t, "old", doc.Sections.Awards.Items[0].ID)
	assert.NotEqual(t, "cs", doc.CustomSections[0].ID)
	assert.NotEqual(t, "ci", doc.CustomSections[0].Items[0].ID)
}

func TestDocumentSchemaIsJSON(t *testing.T) {
	schema := DocumentSchema()
	require.NotEmpty(t, schema)
	assert.True(t, json.Valid(schema))
}

func TestParseProfile(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, ValidateProfile(p))

	p.Experience = []ExperienceItem{{Item: Item{ID: "e1"}, Company: "Acme"}}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	got, err := ParseProfile(raw)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Experience[0].Company)
	assert.NotNil(t, got.Skills)

	_, err = ParseProfile([]byte(`{"basics":{"name":"x"},"summary":5}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Paths(), "summary")
}

func TestProfileEmpty(t *testing.T) {
	p := DefaultProfile()
	assert.True(t, p.Empty())
	p.Basics.Name = "Ada"
	assert.False(t, p.Empty())
}

func TestValidateLeavesInputUntouched(t *testing.T) {
	doc := DefaultDocument()
	doc.Sections.Skills.Items = []SkillItem{{Item: Item{ID: "s1"}, Name: "Go"}}
	doc.Sections.Skills.Hidden = false

	require.NoError(t, Validate(doc))
	assert.Nil(t, doc.Sections.Skills.Items[0].Keywords)

	doc.Normalize()
	assert.NotNil(t, doc.Sections.Skills.Items[0].Keywords)

	p := DefaultProfile()
	p.Interests = []InterestItem{{Item: Item{ID: "i1"}, Name: "Chess"}}
	require.NoError(t, ValidateProfile(p))
	assert.Nil(t, p.Interests[0].Keywords)
}

func TestWithDefaultsAndFreshIDs(t *testing.T) {
	raw := []byte(`{"basics":{"name":"Ada"},"sections":{"skills":{"hidden":false,"items":[{"id":"x","name":"Go"},{"id":"x","name":"SQL"}]}}}`)

	merged, err := WithDefaults(raw)
	require.NoError(t, err)
	merged, err = WithFreshIDs(merged)
	require.NoError(t, err)

	doc, err := Parse(merged)
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.Basics.Name)
	assert.Equal(t, "Skills", doc.Sections.Skills.Title)
	require.Len(t, doc.Sections.Skills.Items, 2)
	assert.NotEqual(t, "x", doc.Sections.Skills.Items[0].ID)
	assert.NotEqual(t, doc.Sections.Skills.Items[0].ID, doc.Sections.Skills.Items[1].ID)
	assert.NotNil(t, doc.Sections.Skills.Items[1].Keywords)
	assert.Equal(t, DefaultPicture(), doc.Picture)

	_, err = WithDefaults([]byte(`[1,2]`))
	assert.Error(t, err)
}
