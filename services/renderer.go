package services

import (
	"bytes"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"internfolio-backend/models/apperr"
	"internfolio-backend/models/forms"
)

// Отчет рендерится в самодостаточный HTML: все стили инлайновые,
// итоговые цвета заданы прямо в документе — конвертер не понимает
// внешние таблицы стилей и современные цветовые функции
const reportHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.OwnerName}} — Internship Report</title></head>
<body style="font-family: Helvetica, Arial, sans-serif; color: #1a1a2e; margin: 0; padding: 32px;">
  <div style="border-bottom: 3px solid #4f46e5; padding-bottom: 16px; margin-bottom: 24px;">
    <h1 style="margin: 0; font-size: 28px; color: #1a1a2e;">{{.Draft.BasicInfo.FullName}}</h1>
    <p style="margin: 4px 0 0; font-size: 15px; color: #4f46e5;">{{.Draft.BasicInfo.InternshipRole}} — {{.Draft.BasicInfo.TeamDepartment}}</p>
    <p style="margin: 4px 0 0; font-size: 12px; color: #6b7280;">{{.Draft.BasicInfo.StartDate}} — {{.Draft.BasicInfo.EndDate}}{{if .Draft.BasicInfo.ManagerName}} · Manager: {{.Draft.BasicInfo.ManagerName}}{{end}}</p>
  </div>

  <h2 style="font-size: 18px; color: #1a1a2e; border-left: 4px solid #4f46e5; padding-left: 8px;">Summary</h2>
  <p style="font-size: 13px; line-height: 1.6;">{{.Draft.BasicInfo.Summary}}</p>
  {{if .Draft.BasicInfo.Teammates}}
  <p style="font-size: 12px; color: #6b7280;">Teammates: {{range $i, $t := .Draft.BasicInfo.Teammates}}{{if $i}}, {{end}}{{$t.Name}}{{end}}</p>
  {{end}}

  <h2 style="font-size: 18px; color: #1a1a2e; border-left: 4px solid #4f46e5; padding-left: 8px;">Tech Stack</h2>
  {{if .Draft.TechStack.Languages}}<p style="font-size: 13px;"><b>Languages:</b> {{join .Draft.TechStack.Languages}}</p>{{end}}
  {{if .Draft.TechStack.Frameworks}}<p style="font-size: 13px;"><b>Frameworks:</b> {{join .Draft.TechStack.Frameworks}}</p>{{end}}
  {{if .Draft.TechStack.Tools}}<p style="font-size: 13px;"><b>Tools:</b> {{join .Draft.TechStack.Tools}}</p>{{end}}
  {{if .Draft.TechStack.OtherTools}}<p style="font-size: 13px;"><b>Other:</b> {{.Draft.TechStack.OtherTools}}</p>{{end}}
  <table style="border-collapse: collapse; margin-top: 8px;">
    <tr>
      {{if .Draft.TechStack.Commits}}<td style="border: 1px solid #e5e7eb; padding: 6px 14px; font-size: 12px; text-align: center;"><b style="font-size: 16px; color: #4f46e5;">{{.Draft.TechStack.Commits}}</b><br>commits</td>{{end}}
      {{if .Draft.TechStack.FeaturesShipped}}<td style="border: 1px solid #e5e7eb; padding: 6px 14px; font-size: 12px; text-align: center;"><b style="font-size: 16px; color: #4f46e5;">{{.Draft.TechStack.FeaturesShipped}}</b><br>features</td>{{end}}
      {{if .Draft.TechStack.LinesOfCode}}<td style="border: 1px solid #e5e7eb; padding: 6px 14px; font-size: 12px; text-align: center;"><b style="font-size: 16px; color: #4f46e5;">{{.Draft.TechStack.LinesOfCode}}</b><br>lines of code</td>{{end}}
      {{if .Draft.TechStack.Contributions}}<td style="border: 1px solid #e5e7eb; padding: 6px 14px; font-size: 12px; text-align: center;"><b style="font-size: 16px; color: #4f46e5;">{{.Draft.TechStack.Contributions}}</b><br>contributions</td>{{end}}
    </tr>
  </table>

  <h2 style="font-size: 18px; color: #1a1a2e; border-left: 4px solid #4f46e5; padding-left: 8px;">Learning &amp; Growth</h2>
  {{if .Draft.Learning.CurrentlyLearning}}<p style="font-size: 13px;"><b>Currently learning:</b> {{join .Draft.Learning.CurrentlyLearning}}</p>{{end}}
  {{if .Draft.Learning.InterestedIn}}<p style="font-size: 13px;"><b>Interested in:</b> {{join .Draft.Learning.InterestedIn}}</p>{{end}}
  {{range .Draft.Learning.Technical}}
  <div style="margin: 8px 0; padding: 8px 12px; background-color: #f9fafb; border-radius: 4px;">
    <p style="margin: 0; font-size: 13px;"><b>{{.Title}}</b> <span style="color: #6b7280;">(technical)</span></p>
    {{if .Context}}<p style="margin: 2px 0 0; font-size: 12px; color: #6b7280;">{{.Context}}</p>{{end}}
    <p style="margin: 4px 0 0; font-size: 12px;">{{.Learned}}</p>
  </div>
  {{end}}
  {{range .Draft.Learning.SoftSkills}}
  <div style="margin: 8px 0; padding: 8px 12px; background-color: #f9fafb; border-radius: 4px;">
    <p style="margin: 0; font-size: 13px;"><b>{{.Title}}</b> <span style="color: #6b7280;">(soft skill)</span></p>
    {{if .Context}}<p style="margin: 2px 0 0; font-size: 12px; color: #6b7280;">{{.Context}}</p>{{end}}
    <p style="margin: 4px 0 0; font-size: 12px;">{{.Learned}}</p>
  </div>
  {{end}}
  {{range .Draft.Learning.Collaboration}}
  <div style="margin: 8px 0; padding: 8px 12px; background-color: #f9fafb; border-radius: 4px;">
    <p style="margin: 0; font-size: 13px;"><b>{{.Title}}</b> <span style="color: #6b7280;">(collaboration{{if .Teams}} with {{join .Teams}}{{end}})</span></p>
    {{if .Context}}<p style="margin: 2px 0 0; font-size: 12px; color: #6b7280;">{{.Context}}</p>{{end}}
    <p style="margin: 4px 0 0; font-size: 12px;">{{.Learned}}</p>
  </div>
  {{end}}

  {{if .Draft.Projects}}
  <h2 style="font-size: 18px; color: #1a1a2e; border-left: 4px solid #4f46e5; padding-left: 8px;">Projects</h2>
  {{range .Draft.Projects}}
  <div style="margin: 12px 0; padding: 12px 16px; border: 1px solid #e5e7eb; border-radius: 6px; page-break-inside: avoid;">
    <h3 style="margin: 0; font-size: 15px; color: #1a1a2e;">{{.Title}}</h3>
    <p style="margin: 2px 0; font-size: 12px; color: #4f46e5;">{{.Role}}{{if .StartDate}} · {{.StartDate}}{{if .EndDate}} — {{.EndDate}}{{end}}{{end}}</p>
    <p style="margin: 6px 0; font-size: 13px; line-height: 1.5;">{{.Description}}</p>
    {{if .Technologies}}<p style="margin: 4px 0; font-size: 12px; color: #6b7280;">Tech: {{join .Technologies}}</p>{{end}}
    {{if .Outcome}}<p style="margin: 4px 0; font-size: 12px;"><b>Outcome:</b> {{.Outcome}}</p>{{end}}
    {{range .PullRequests}}
    <p style="margin: 3px 0 3px 12px; font-size: 12px;">PR [{{.Status}}] {{.Title}}{{if .Date}} ({{.Date}}){{end}}</p>
    {{end}}
    {{range .Challenges}}
    <div style="margin: 6px 0 6px 12px; font-size: 12px;">
      <p style="margin: 0;"><b>Challenge:</b> {{.Obstacle}}</p>
      <p style="margin: 0;"><b>Approach:</b> {{.Approach}}</p>
      <p style="margin: 0;"><b>Resolution:</b> {{.Resolution}}</p>
      {{if .LessonsLearned}}<p style="margin: 0; color: #6b7280;">Lessons: {{.LessonsLearned}}</p>{{end}}
    </div>
    {{end}}
  </div>
  {{end}}
  {{end}}
</body>
</html>`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": func(items []string) string {
		out := ""
		for i, s := range items {
			if i > 0 {
				out += ", "
			}
			out += s
		}
		return out
	},
}).Parse(reportHTML))

// RenderHTML строит статический HTML-документ отчета из черновика
func RenderHTML(ownerName string, d *forms.Draft) (string, error) {
	var buf bytes.Buffer
	data := struct {
		OwnerName string
		Draft     *forms.Draft
	}{OwnerName: ownerName, Draft: d}

	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(apperr.ErrRenderFailure, "failed to render report template: %v", err)
	}
	return buf.String(), nil
}

// checkWkhtmltopdfExists verifies wkhtmltopdf is installed.
func checkWkhtmltopdfExists() (err error) {
	cmd := exec.Command("wkhtmltopdf", "--version")
	err = cmd.Run()
	if err != nil {
		err = errors.Wrap(apperr.ErrRenderFailure, "wkhtmltopdf not found in PATH (install wkhtmltopdf to export PDFs)")
		return err
	}
	return err
}

// RenderPDF конвертирует отчет в постраничный PDF формата A4.
// При любой ошибке результат отбрасывается целиком — частичные
// файлы наружу не отдаются
func RenderPDF(ownerName string, d *forms.Draft) ([]byte, error) {
	if err := checkWkhtmltopdfExists(); err != nil {
		return nil, err
	}

	html, err := RenderHTML(ownerName, d)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "internfolio-pdf-*")
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrRenderFailure, "failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "report.html")
	pdfPath := filepath.Join(tmpDir, "report.pdf")

	if err := os.WriteFile(htmlPath, []byte(html), 0600); err != nil {
		return nil, errors.Wrapf(apperr.ErrRenderFailure, "failed to write report HTML: %v", err)
	}

	cmd := exec.Command(
		"wkhtmltopdf",
		"--page-size", "A4",
		"--margin-top", "10mm",
		"--margin-bottom", "10mm",
		"--quiet",
		htmlPath,
		pdfPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrRenderFailure, "wkhtmltopdf failed: %v: %s", err, string(output))
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrRenderFailure, "failed to read rendered PDF: %v", err)
	}
	return pdf, nil
}

// RenderPDFToFile рендерит отчет и атомарно кладет его по указанному пути:
// запись идет во временный файл, rename — только после успеха
func RenderPDFToFile(ownerName string, d *forms.Draft, outputPath string) error {
	pdf, err := RenderPDF(ownerName, d)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return errors.Wrapf(err, "failed to create output directory: %s", outputDir)
	}

	tmp, err := os.CreateTemp(outputDir, ".report-*.pdf")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write PDF")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to move PDF into place")
	}
	return nil
}
