package forms

import (
	"net/http"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	"internfolio-backend/metrics"
	"internfolio-backend/models/users"
	"internfolio-backend/services"
)

// ExportPDF — GET /api/export/pdf: отчет текущего пользователя в PDF.
// При ошибке рендеринга файл не отдается вообще
func ExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	state, err := LoadFormState(config.DB, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load form", err.Error())
		return
	}

	ownerName := state.Draft.BasicInfo.FullName
	if ownerName == "" {
		if user, err := users.GetUserByID(claims.UserID); err == nil {
			ownerName = user.Name
		}
	}

	pdf, err := services.RenderPDF(ownerName, &state.Draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render PDF", err.Error())
		return
	}

	metrics.PDFExports.Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="internship-report.pdf"`)
	w.Write(pdf)
}
