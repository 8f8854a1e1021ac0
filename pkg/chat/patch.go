package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Operation is one JSON Patch step against the canonical document.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Apply runs ops in order against doc and re-validates the result. The input
// document is never modified. Objects added to an items array or to
// customSections get a fresh id. Existing identifiers cannot be changed:
// operations on an item's id are rejected and a replaced item keeps its id.
func Apply(doc resume.Document, ops []Operation) (resume.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return resume.Document{}, fmt.Errorf("encode document: %w", err)
	}
	for i, op := range ops {
		raw, err = applyOne(raw, op)
		if err != nil {
			return resume.Document{}, &resume.ValidationError{Fields: []resume.FieldError{{
				Field:   "operations." + strconv.Itoa(i),
				Message: err.Error(),
			}}}
		}
	}
	return resume.Parse(raw)
}

func applyOne(raw []byte, op Operation) ([]byte, error) {
	tokens, err := pointer(op.Path)
	if err != nil {
		return nil, err
	}
	target := joinPath(tokens)
	parent := joinPath(tokens[:len(tokens)-1])
	last := tokens[len(tokens)-1]
	if isItemID(tokens) {
		return nil, fmt.Errorf("identifier at %s cannot be changed", op.Path)
	}

	switch op.Op {
	case OpRemove:
		if !gjson.GetBytes(raw, target).Exists() {
			return nil, fmt.Errorf("path %s does not exist", op.Path)
		}
		return sjson.DeleteBytes(raw, target)

	case OpReplace:
		if len(op.Value) == 0 {
			return nil, errors.New("replace needs a value")
		}
		if !gjson.ValidBytes(op.Value) {
			return nil, errors.New("value is not valid JSON")
		}
		current := gjson.GetBytes(raw, target)
		if !current.Exists() {
			return nil, fmt.Errorf("path %s does not exist", op.Path)
		}
		value, err := keepIDs(tokens, current, op.Value)
		if err != nil {
			return nil, err
		}
		return sjson.SetRawBytes(raw, target, value)

	case OpAdd:
		if len(op.Value) == 0 {
			return nil, errors.New("add needs a value")
		}
		if !gjson.ValidBytes(op.Value) {
			return nil, errors.New("value is not valid JSON")
		}
		container := gjson.ParseBytes(raw)
		if parent != "" {
			container = gjson.GetBytes(raw, parent)
		}
		if !container.Exists() {
			return nil, fmt.Errorf("parent of %s does not exist", op.Path)
		}
		if !container.IsArray() {
			return sjson.SetRawBytes(raw, target, op.Value)
		}
		value, err := withFreshID(tokens, op.Value)
		if err != nil {
			return nil, err
		}
		if last == "-" {
			return sjson.SetRawBytes(raw, parent+".-1", value)
		}
		return insertAt(raw, parent, container, last, value)
	}
	return nil, fmt.Errorf("unsupported op %q", op.Op)
}

func insertAt(raw []byte, parent string, arr gjson.Result, index string, value []byte) ([]byte, error) {
	elems := arr.Array()
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i > len(elems) {
		return nil, fmt.Errorf("index %q out of range", index)
	}
	out := make([]json.RawMessage, 0, len(elems)+1)
	for j, e := range elems {
		if j == i {
			out = append(out, value)
		}
		out = append(out, json.RawMessage(e.Raw))
	}
	if i == len(elems) {
		out = append(out, value)
	}
	next, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(raw, parent, next)
}

func ownsIDs(container string) bool {
	switch container {
	case "items", "customSections", "customFields":
		return true
	}
	return false
}

func isIndex(token string) bool {
	_, err := strconv.Atoi(token)
	return err == nil
}

// isItemID reports whether tokens point at the id of an existing item,
// custom section or custom field.
func isItemID(tokens []string) bool {
	n := len(tokens)
	return n >= 3 && tokens[n-1] == "id" && isIndex(tokens[n-2]) && ownsIDs(tokens[n-3])
}

// keepIDs carries identifiers over when a replace targets a whole item or a
// whole identified array. A replaced item keeps its id. In a replaced array,
// ids already present in the old array survive and all others are renewed.
func keepIDs(tokens []string, current gjson.Result, value []byte) ([]byte, error) {
	n := len(tokens)
	switch {
	case n >= 2 && isIndex(tokens[n-1]) && ownsIDs(tokens[n-2]):
		id := current.Get("id")
		if !id.Exists() || !gjson.ParseBytes(value).IsObject() {
			return value, nil
		}
		return sjson.SetBytes(value, "id", id.String())

	case ownsIDs(tokens[n-1]) && current.IsArray():
		next := gjson.ParseBytes(value)
		if !next.IsArray() {
			return value, nil
		}
		known := map[string]bool{}
		for _, it := range current.Array() {
			if id := it.Get("id"); id.Type == gjson.String {
				known[id.String()] = true
			}
		}
		out := value
		used := map[string]bool{}
		for i, it := range next.Array() {
			if !it.IsObject() {
				continue
			}
			id := it.Get("id").String()
			if known[id] && !used[id] {
				used[id] = true
				continue
			}
			var err error
			if out, err = sjson.SetBytes(out, strconv.Itoa(i)+".id", resume.NewID()); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return value, nil
}

// withFreshID stamps a new id on objects added to item or custom section arrays.
func withFreshID(tokens []string, value []byte) ([]byte, error) {
	if len(tokens) < 2 || !gjson.ParseBytes(value).IsObject() {
		return value, nil
	}
	if ownsIDs(tokens[len(tokens)-2]) {
		return sjson.SetBytes(value, "id", resume.NewID())
	}
	return value, nil
}

// pointer splits an RFC 6901 JSON Pointer into unescaped tokens.
func pointer(p string) ([]string, error) {
	if !strings.HasPrefix(p, "/") || len(p) < 2 {
		return nil, fmt.Errorf("invalid path %q", p)
	}
	parts := strings.Split(p[1:], "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts, nil
}

// joinPath builds a gjson/sjson path from pointer tokens.
func joinPath(tokens []string) string {
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		var b strings.Builder
		for _, r := range t {
			if strings.ContainsRune(`\.*?|#@!=<>%:`, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}
