// Package importer converts third-party resume JSON formats into the
// canonical resume document.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// Format identifies a supported JSON import format.
type Format string

const (
	FormatReactiveResume   Format = "reactive-resume-json"
	FormatReactiveResumeV4 Format = "reactive-resume-v4-json"
	FormatJSONResume       Format = "json-resume-json"
)

var ErrUnknownFormat = errors.New("unknown import format")

// Importer turns raw text in one format into a validated canonical document.
// Implementations are pure: no network, no storage, no shared state.
type Importer interface {
	Format() Format
	Parse(raw string) (resume.Document, error)
}

var registry = map[Format]Importer{
	FormatReactiveResume:   ReactiveResume{},
	FormatReactiveResumeV4: ReactiveResumeV4{},
	FormatJSONResume:       JSONResume{},
}

// Get returns the importer registered for the format.
func Get(format Format) (Importer, error) {
	imp, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return imp, nil
}

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	out := make([]Format, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parse is a shorthand for Get(format) followed by Parse.
func Parse(format Format, raw string) (resume.Document, error) {
	imp, err := Get(format)
	if err != nil {
		return resume.Document{}, err
	}
	return imp.Parse(raw)
}

// root checks that raw is a JSON object carrying the required top-level keys.
func root(format Format, raw string, required ...string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, &resume.MalformedInputError{Format: string(format), Err: errors.New("invalid JSON")}
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return gjson.Result{}, &resume.ValidationError{Fields: []resume.FieldError{{Message: "expected a JSON object"}}}
	}
	var missing []resume.FieldError
	for _, key := range required {
		if !doc.Get(key).IsObject() {
			missing = append(missing, resume.FieldError{Field: key, Message: "object is required"})
		}
	}
	if len(missing) > 0 {
		return gjson.Result{}, &resume.ValidationError{Fields: missing}
	}
	return doc, nil
}

// finish hides empty sections, assigns fresh ids and validates the result.
func finish(doc resume.Document) (resume.Document, error) {
	resume.HideEmptySections(&doc)
	resume.RegenerateItemIDs(&doc)
	raw, err := json.Marshal(doc)
	if err != nil {
		return resume.Document{}, fmt.Errorf("encode document: %w", err)
	}
	return resume.Parse(raw)
}
