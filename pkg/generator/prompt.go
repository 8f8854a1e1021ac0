package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/artem13815/resumebuilder/pkg/nlp"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

const systemPrompt = `You are a professional resume writer who produces resumes that pass applicant tracking systems (ATS).

ATS rules:
- Use standard section headings: "Summary", "Experience", "Education", "Projects", "Skills", "Certifications", "Achievements" (for awards), "Languages".
- One idea per bullet. Start every bullet with a strong action verb (Architected, Implemented, Optimized, Led, Reduced).
- Write bullets with the XYZ formula: accomplished X, measured by Y, by doing Z. Quantify only where the data supports it.
- Plain wording, no tables, no images, no decorative characters.
- Descriptions are HTML strings using only <p>, <ul>, <li>, <strong> and <em>.

Instructions:
1. The user message contains the complete profile and, optionally, a job description.
2. Use only the user's data. Never invent employers, titles, dates, metrics or achievements. Leave empty fields empty.
3. When a job description is given, tailor the resume to it: put the most relevant experience first, use its keywords where they truthfully apply, prioritise relevant skills and projects and write a targeted summary.
4. The summary is 3-4 sentences on the candidate's strongest qualifications; without a job description write a general professional summary.
5. Keep every item identifier from the profile unchanged.
6. Hide sections that end up with no items.

Output only a JSON object that matches the resume data schema. No markdown, no commentary.`

func userPrompt(p resume.Profile, jobDescription string) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	var b strings.Builder
	b.WriteString("Here is the user's profile information:\n\n")
	b.Write(data)
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		b.WriteString("\n\nHere is the job description the resume should be tailored for:\n\n")
		b.WriteString(jd)
		if matched, _ := nlp.MatchSkills(jd, skillNames(p)); len(matched) > 0 {
			b.WriteString("\n\nProfile skills the job description asks for: ")
			b.WriteString(strings.Join(matched, ", "))
			b.WriteString(".")
		}
	} else {
		b.WriteString("\n\nNo specific job description provided. Generate a strong general-purpose resume.")
	}
	return b.String(), nil
}

// skillNames lists the profile's skills and their keywords.
func skillNames(p resume.Profile) []string {
	var out []string
	for _, s := range p.Skills {
		out = append(out, s.Name)
		out = append(out, s.Keywords...)
	}
	return out
}
