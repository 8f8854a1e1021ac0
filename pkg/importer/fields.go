package importer

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// str returns the first non-empty string found at the given paths.
func str(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if v.Type == gjson.String || v.Type == gjson.Number {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// boolOr reads a boolean, falling back to def when the key is absent.
func boolOr(r gjson.Result, path string, def bool) bool {
	v := r.Get(path)
	if v.Type == gjson.True || v.Type == gjson.False {
		return v.Bool()
	}
	return def
}

func columns(r gjson.Result, path string) int {
	n := int(r.Get(path).Int())
	if n < 1 {
		return 1
	}
	if n > 6 {
		return 6
	}
	return n
}

func stringList(r gjson.Result, path string) []string {
	out := []string{}
	for _, v := range r.Get(path).Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// link reads a URL that is either a plain string or an object carrying
// href/url and label.
func link(r gjson.Result, paths ...string) resume.URL {
	for _, p := range paths {
		v := r.Get(p)
		switch {
		case v.Type == gjson.String && strings.TrimSpace(v.String()) != "":
			return resume.URL{URL: strings.TrimSpace(v.String())}
		case v.IsObject():
			u := resume.URL{URL: str(v, "href", "url"), Label: str(v, "label")}
			if u.URL != "" || u.Label != "" {
				return u
			}
		}
	}
	return resume.URL{}
}

// place reads a location that is either a string or a postal-address object.
func place(r gjson.Result, path string) string {
	v := r.Get(path)
	if !v.IsObject() {
		return strings.TrimSpace(v.String())
	}
	var parts []string
	for _, key := range []string{"address", "city", "region", "countryCode", "country"} {
		if s := str(v, key); s != "" && !contains(parts, s) {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// level maps numeric or verbal proficiency onto the 0-5 scale.
func level(r gjson.Result, path string) int {
	v := r.Get(path)
	if v.Type == gjson.Number {
		return clampLevel(int(v.Int()))
	}
	s := strings.ToLower(strings.TrimSpace(v.String()))
	if n, err := strconv.Atoi(s); err == nil {
		return clampLevel(n)
	}
	switch s {
	case "beginner", "novice", "elementary", "basic":
		return 1
	case "intermediate", "conversational", "limited working proficiency":
		return 3
	case "advanced", "fluent", "professional working proficiency", "full professional proficiency":
		return 4
	case "expert", "master", "native", "native speaker", "native or bilingual proficiency":
		return 5
	}
	return 0
}

func clampLevel(n int) int {
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

var dateLayouts = []struct {
	layout string
	out    string
}{
	{"2006-01-02", "Jan 2006"},
	{"2006-01", "Jan 2006"},
	{"2006", "2006"},
}

// formatDate renders ISO-8601 dates ("2020", "2020-03", "2020-03-15") as
// "Mar 2020". Anything else is returned as written.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t.Format(l.out)
		}
	}
	return s
}

// period joins a start and end date into "Jan 2020 - Present".
func period(start, end string) string {
	start, end = formatDate(start), formatDate(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start + " - Present"
	}
	return start + " - " + end
}

// dateOrRange reads a date that is either a string or a {start,end} object.
func dateOrRange(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.IsObject() {
		return period(str(v, "start"), str(v, "end"))
	}
	return strings.TrimSpace(v.String())
}

func looksLikeHTML(s string) bool {
	for _, tag := range []string{"<p>", "<p ", "<ul", "<ol", "<li", "<br", "<strong", "<em>", "<a "} {
		if strings.Contains(s, tag) {
			return true
		}
	}
	return false
}

// paragraphs wraps plain text into <p> blocks, one per blank-line separated
// paragraph. HTML input is kept as is.
func paragraphs(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || looksLikeHTML(text) {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines := strings.Split(p, "\n")
		for i := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(lines[i]))
		}
		b.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>")
	}
	return b.String()
}

func bullets(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, it := range items {
		b.WriteString("<li>" + html.EscapeString(it) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// richText combines a free-text summary and a list of highlights.
func richText(summary string, highlights []string) string {
	return paragraphs(summary) + bullets(highlights)
}

func iconFor(network string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(network)), " ", "")
}
