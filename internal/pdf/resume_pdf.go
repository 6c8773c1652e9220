// Package pdf renders stored resumes to PDF for download. The content blob is
// schemaless, so missing sections are simply skipped.
package pdf

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/algoprep/backend/internal/domain"
)

// resumeContent is the loose shape of the client-side resume data. Unknown
// fields are ignored.
type resumeContent struct {
	PersonalInfo struct {
		Name    string `json:"name"`
		Title   string `json:"title"`
		Contact struct {
			Email    string `json:"email"`
			Phone    string `json:"phone"`
			Location string `json:"location"`
		} `json:"contact"`
	} `json:"personalInfo"`
	Summary         string              `json:"summary"`
	TechnicalSkills map[string][]string `json:"technicalSkills"`
	Experience      []struct {
		Company          string   `json:"company"`
		Role             string   `json:"role"`
		Period           string   `json:"period"`
		Responsibilities []string `json:"responsibilities"`
	} `json:"experience"`
	Education []struct {
		Institution string `json:"institution"`
		Degree      string `json:"degree"`
		Period      string `json:"period"`
	} `json:"education"`
	Achievements []string `json:"achievements"`
}

// ResumeRenderer renders resumes as single-column A4 documents
type ResumeRenderer struct{}

// NewResumeRenderer creates a new renderer
func NewResumeRenderer() *ResumeRenderer {
	return &ResumeRenderer{}
}

// Render produces the PDF bytes for a resume
func (r *ResumeRenderer) Render(resume *domain.Resume) ([]byte, error) {
	var content resumeContent
	if len(resume.Content) > 0 {
		if err := json.Unmarshal(resume.Content, &content); err != nil {
			return nil, err
		}
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(resume.Title, true)
	doc.SetMargins(18, 18, 18)
	doc.AddPage()

	r.header(doc, &content)
	if content.Summary != "" {
		r.section(doc, "Summary")
		r.paragraph(doc, content.Summary)
	}
	r.skills(doc, content.TechnicalSkills)
	r.experience(doc, &content)
	r.education(doc, &content)
	if len(content.Achievements) > 0 {
		r.section(doc, "Achievements")
		for _, a := range content.Achievements {
			r.bullet(doc, a)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ResumeRenderer) header(doc *fpdf.Fpdf, content *resumeContent) {
	name := content.PersonalInfo.Name
	if name == "" {
		name = "Resume"
	}
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, name, "", 1, "L", false, 0, "")

	if content.PersonalInfo.Title != "" {
		doc.SetFont("Helvetica", "", 12)
		doc.SetTextColor(90, 90, 90)
		doc.CellFormat(0, 7, content.PersonalInfo.Title, "", 1, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
	}

	contact := content.PersonalInfo.Contact
	parts := []string{}
	for _, p := range []string{contact.Email, contact.Phone, contact.Location} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, strings.Join(parts, "  |  "), "", 1, "L", false, 0, "")
	}
	doc.Ln(3)
}

func (r *ResumeRenderer) section(doc *fpdf.Fpdf, title string) {
	doc.Ln(2)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	doc.Ln(1)
}

func (r *ResumeRenderer) paragraph(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, text, "", "L", false)
	doc.Ln(1)
}

func (r *ResumeRenderer) bullet(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, "- "+text, "", "L", false)
}

func (r *ResumeRenderer) skills(doc *fpdf.Fpdf, skills map[string][]string) {
	if len(skills) == 0 {
		return
	}
	r.section(doc, "Technical Skills")
	for group, items := range skills {
		if len(items) == 0 {
			continue
		}
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(35, 5, titleCase(group)+":", "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, strings.Join(items, ", "), "", "L", false)
	}
	doc.Ln(1)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (r *ResumeRenderer) experience(doc *fpdf.Fpdf, content *resumeContent) {
	if len(content.Experience) == 0 {
		return
	}
	r.section(doc, "Experience")
	for _, exp := range content.Experience {
		doc.SetFont("Helvetica", "B", 11)
		heading := exp.Role
		if exp.Company != "" {
			if heading != "" {
				heading += " - "
			}
			heading += exp.Company
		}
		doc.CellFormat(0, 6, heading, "", 1, "L", false, 0, "")
		if exp.Period != "" {
			doc.SetFont("Helvetica", "I", 9)
			doc.SetTextColor(90, 90, 90)
			doc.CellFormat(0, 5, exp.Period, "", 1, "L", false, 0, "")
			doc.SetTextColor(0, 0, 0)
		}
		for _, resp := range exp.Responsibilities {
			r.bullet(doc, resp)
		}
		doc.Ln(2)
	}
}

func (r *ResumeRenderer) education(doc *fpdf.Fpdf, content *resumeContent) {
	if len(content.Education) == 0 {
		return
	}
	r.section(doc, "Education")
	for _, edu := range content.Education {
		doc.SetFont("Helvetica", "B", 11)
		heading := edu.Degree
		if edu.Institution != "" {
			if heading != "" {
				heading += " - "
			}
			heading += edu.Institution
		}
		doc.CellFormat(0, 6, heading, "", 1, "L", false, 0, "")
		if edu.Period != "" {
			doc.SetFont("Helvetica", "I", 9)
			doc.SetTextColor(90, 90, 90)
			doc.CellFormat(0, 5, edu.Period, "", 1, "L", false, 0, "")
			doc.SetTextColor(0, 0, 0)
		}
		doc.Ln(1)
	}
}
