package services

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"internfolio-backend/models/apperr"
	"internfolio-backend/models/forms"
)

func sampleDraft() forms.Draft {
	return forms.Draft{
		BasicInfo: forms.BasicInfo{
			FullName:       "Anna Lee",
			InternshipRole: "SWE Intern",
			TeamDepartment: "Infrastructure",
			StartDate:      "2025-06-02",
			EndDate:        "2025-08-22",
			Summary:        "Built the deploy pipeline.",
		},
		TechStack: forms.TechStack{
			Languages: []string{"Go", "Python"},
			Commits:   "214",
		},
		Learning: forms.Learning{
			Technical: []forms.TechnicalEntry{{ID: "t1", Title: "Tracing", Learned: "Spans and baggage"}},
		},
		Projects: []forms.Project{{
			ID:          "p1",
			Title:       "Deploy pipeline",
			Description: "CI to prod in one click",
			Role:        "Owner",
			Challenges: []forms.Challenge{
				{ID: "c1", Obstacle: "Flaky e2e", Approach: "Retries", Resolution: "Green builds"},
			},
		}},
	}
}

func TestRenderHTMLContainsDraftFields(t *testing.T) {
	d := sampleDraft()

	html, err := RenderHTML("Anna Lee", &d)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	for _, want := range []string{
		"Anna Lee",
		"SWE Intern",
		"Built the deploy pipeline.",
		"Go, Python",
		"Tracing",
		"Deploy pipeline",
		"Flaky e2e",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML is missing %q", want)
		}
	}
}

func TestRenderHTMLStylesAreInline(t *testing.T) {
	d := sampleDraft()

	html, err := RenderHTML("Anna Lee", &d)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	// Конвертер не умеет внешние стили — документ должен быть самодостаточным
	if strings.Contains(html, "<link") || strings.Contains(html, "<style") {
		t.Error("report HTML must not rely on stylesheets")
	}
	if !strings.Contains(html, `style="`) {
		t.Error("report HTML must carry inline styles")
	}
}

func TestRenderHTMLEscapesUserInput(t *testing.T) {
	d := sampleDraft()
	d.BasicInfo.Summary = `<script>alert("x")</script>`

	html, err := RenderHTML("Anna Lee", &d)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("user input must be escaped in the rendered report")
	}
}

func TestRenderPDFFailureCarriesSentinel(t *testing.T) {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		t.Skip("wkhtmltopdf is installed, missing-converter path not reachable")
	}

	d := sampleDraft()
	_, err := RenderPDF("Anna Lee", &d)
	if err == nil {
		t.Fatal("RenderPDF must fail without wkhtmltopdf")
	}
	if !errors.Is(err, apperr.ErrRenderFailure) {
		t.Fatalf("expected ErrRenderFailure, got %v", err)
	}
}

func TestRenderPDFToFileNoPartialOutput(t *testing.T) {
	if _, err := exec.LookPath("wkhtmltopdf"); err != nil {
		t.Skip("wkhtmltopdf not installed")
	}

	d := sampleDraft()
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "out", "report.pdf")

	if err := RenderPDFToFile("Anna Lee", &d, outPath); err != nil {
		t.Fatalf("RenderPDFToFile failed: %v", err)
	}

	// Во временной директории не должно остаться черновых файлов
	leftovers, _ := filepath.Glob(filepath.Join(tmpDir, "out", ".report-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
