package tailor

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	heavyRule = strings.Repeat("=", 80)
	lightRule = strings.Repeat("-", 80)
)

// RenderText writes the plain text resume layout.
func RenderText(w io.Writer, r *Resume) error {
	b := bufio.NewWriter(w)
	title := cases.Title(language.English)

	personal := r.PersonalInfo
	fmt.Fprintf(b, "%s\n", personal.Name)
	fmt.Fprintf(b, "%s | %s | %s\n", personal.Location, personal.Phone, personal.Email)
	fmt.Fprintf(b, "LinkedIn: linkedin.com/in/%s | GitHub: github.com/%s\n", personal.LinkedIn, personal.GitHub)
	fmt.Fprintf(b, "Visa Status: %s\n", personal.VisaStatus)
	fmt.Fprintf(b, "\n%s\n\n", heavyRule)

	section(b, "PROFESSIONAL SUMMARY")
	fmt.Fprintf(b, "%s\n\n", r.Summary)

	section(b, "TECHNICAL SKILLS")
	for _, category := range r.categories {
		name := title.String(strings.ReplaceAll(category.Name, "_", " "))
		fmt.Fprintf(b, "%s: %s\n", name, strings.Join(category.Skills, ", "))
	}
	fmt.Fprintln(b)

	section(b, "PROFESSIONAL EXPERIENCE")
	for _, exp := range r.Experience {
		fmt.Fprintf(b, "%s | %s\n", exp.Title, exp.Company)
		fmt.Fprintf(b, "%s | %s\n", exp.Dates, exp.Location)
		bullets(b, exp.Achievements)
		fmt.Fprintln(b)
	}

	section(b, "KEY PROJECTS")
	for _, proj := range r.Projects {
		fmt.Fprintf(b, "%s\n", proj.Name)
		if proj.URL != "" {
			fmt.Fprintf(b, "%s\n", proj.URL)
		}
		fmt.Fprintf(b, "%s\n", proj.Description)
		bullets(b, proj.Achievements)
		fmt.Fprintf(b, "Technologies: %s\n\n", strings.Join(proj.Technologies, ", "))
	}

	section(b, "EDUCATION")
	for _, edu := range r.Education {
		fmt.Fprintf(b, "%s | %s\n", edu.Degree, edu.Institution)
		fmt.Fprintf(b, "%s\n\n", edu.Dates)
	}

	section(b, "CERTIFICATIONS")
	bullets(b, r.Certifications)

	return b.Flush()
}

func section(w io.Writer, name string) {
	fmt.Fprintf(w, "%s\n%s\n", name, lightRule)
}

func bullets(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}
