package resume

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/definitions.json
var definitions []byte

var (
	schemaOnce     sync.Once
	documentSchema *gojsonschema.Schema
	profileSchema  *gojsonschema.Schema
	documentRaw    []byte
	schemaErr      error
)

// rooted returns the shared definitions with the root pointed at one of them.
func rooted(def string) ([]byte, error) {
	return sjson.SetBytes(definitions, "$ref", "#/definitions/"+def)
}

func loadSchemas() error {
	schemaOnce.Do(func() {
		var profileRaw []byte
		if documentRaw, schemaErr = rooted("document"); schemaErr != nil {
			return
		}
		if profileRaw, schemaErr = rooted("profile"); schemaErr != nil {
			return
		}
		if documentSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(documentRaw)); schemaErr != nil {
			return
		}
		profileSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(profileRaw))
	})
	return schemaErr
}

// DocumentSchema returns the JSON Schema of a canonical document, suitable for
// constraining structured model output.
func DocumentSchema() json.RawMessage {
	if err := loadSchemas(); err != nil {
		return nil
	}
	out := make(json.RawMessage, len(documentRaw))
	copy(out, documentRaw)
	return out
}

func check(schema *gojsonschema.Schema, raw []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &MalformedInputError{Err: err}
	}
	if res.Valid() {
		return nil
	}
	fields := make([]FieldError, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		fields = append(fields, FieldError{Field: fieldPath(e), Message: e.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Fields: fields}
}

func fieldPath(e gojsonschema.ResultError) string {
	field := e.Field()
	if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		field = ""
	}
	if e.Type() == "required" {
		if p, ok := e.Details()["property"].(string); ok && field != p && !strings.HasSuffix(field, "."+p) {
			if field == "" {
				return p
			}
			return field + "." + p
		}
	}
	return field
}

// Parse validates raw JSON against the canonical schema and decodes it.
// Absent optional parts (picture, metadata, customSections) take defaults.
// Every offending field is reported, including repeated item identifiers.
func Parse(raw []byte) (Document, error) {
	if err := loadSchemas(); err != nil {
		return Document{}, fmt.Errorf("load schema: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return Document{}, &MalformedInputError{Format: "resume", Err: fmt.Errorf("invalid JSON")}
	}
	if err := check(documentSchema, raw); err != nil {
		return Document{}, err
	}
	doc := DefaultDocument()
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, newValidationError("", err.Error())
	}
	doc.Normalize()
	if dups := doc.duplicateIDs(); len(dups) > 0 {
		return Document{}, &ValidationError{Fields: dups}
	}
	return doc, nil
}

// Validate runs the same checks as Parse against an in-memory document.
// Nil slices count as empty. doc itself is left untouched.
func Validate(doc Document) error {
	raw, err := normalizedJSON(doc, (*Document).Normalize)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = Parse(raw)
	return err
}

// normalizedJSON normalizes a decoded copy of v, so nested slices shared
// with the caller are never written to.
func normalizedJSON[T any](v T, normalize func(*T)) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var clone T
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, err
	}
	normalize(&clone)
	return json.Marshal(clone)
}

// ParseProfile validates and decodes a master profile.
func ParseProfile(raw []byte) (Profile, error) {
	if err := loadSchemas(); err != nil {
		return Profile{}, fmt.Errorf("load schema: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return Profile{}, &MalformedInputError{Format: "profile", Err: fmt.Errorf("invalid JSON")}
	}
	if err := check(profileSchema, raw); err != nil {
		return Profile{}, err
	}
	p := DefaultProfile()
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, newValidationError("", err.Error())
	}
	p.Normalize()
	if dups := p.duplicateIDs(); len(dups) > 0 {
		return Profile{}, &ValidationError{Fields: dups}
	}
	return p, nil
}

func ValidateProfile(p Profile) error {
	raw, err := normalizedJSON(p, (*Profile).Normalize)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = ParseProfile(raw)
	return err
}
