package resume

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// WithDefaults lays raw JSON over the default document. Nested objects are
// merged key by key; arrays and scalars from raw replace the defaults.
// The result still has to go through Parse.
func WithDefaults(raw []byte) ([]byte, error) {
	var src map[string]any
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, err
	}
	base, err := json.Marshal(DefaultDocument())
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	deepMerge(merged, src)
	return json.Marshal(merged)
}

func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		sv, srcIsMap := v.(map[string]any)
		dv, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			deepMerge(dv, sv)
			continue
		}
		dst[k] = v
	}
}

// WithFreshIDs stamps a new id on every object in every item array of raw
// document JSON, so identifiers carried by the input are never trusted.
func WithFreshIDs(data []byte) ([]byte, error) {
	var err error
	stamp := func(arrayPath string) {
		for i, it := range gjson.GetBytes(data, arrayPath).Array() {
			if err != nil || !it.IsObject() {
				continue
			}
			data, err = sjson.SetBytes(data, arrayPath+"."+strconv.Itoa(i)+".id", NewID())
		}
	}
	for _, key := range SectionKeys {
		stamp("sections." + key + ".items")
	}
	stamp("basics.customFields")
	stamp("customSections")
	for i := range gjson.GetBytes(data, "customSections").Array() {
		stamp("customSections." + strconv.Itoa(i) + ".items")
	}
	if err != nil {
		return nil, fmt.Errorf("assign ids: %w", err)
	}
	return data, nil
}
