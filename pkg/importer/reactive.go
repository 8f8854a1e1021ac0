package importer

import "github.com/artem13815/resumebuilder/pkg/resume"

// ReactiveResume imports documents exported in the current canonical shape.
// Missing parts are filled from the defaults and identifiers are replaced.
type ReactiveResume struct{}

func (ReactiveResume) Format() Format { return FormatReactiveResume }

func (ReactiveResume) Parse(raw string) (resume.Document, error) {
	in, err := root(FormatReactiveResume, raw, "basics", "sections")
	if err != nil {
		return resume.Document{}, err
	}

	data, err := resume.WithDefaults([]byte(in.Raw))
	if err != nil {
		return resume.Document{}, &resume.MalformedInputError{Format: string(FormatReactiveResume), Err: err}
	}
	if data, err = resume.WithFreshIDs(data); err != nil {
		return resume.Document{}, err
	}
	doc, err := resume.Parse(data)
	if err != nil {
		return resume.Document{}, err
	}
	return finish(doc)
}
