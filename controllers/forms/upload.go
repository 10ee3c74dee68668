package forms

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	"internfolio-backend/models/forms"
	"internfolio-backend/models/users"
)

// MediaUpload — загрузка файла медиа-вложения проекта в Google Drive.
// Загруженный файл попадает в коллекцию media проекта с флагом uploaded
func MediaUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file", err.Error())
		return
	}
	defer file.Close()

	projectID := r.FormValue("project")
	mediaType := forms.MediaType(r.FormValue("type"))
	if projectID == "" || mediaType == "" {
		writeError(w, http.StatusBadRequest, "Missing project or media type", "")
		return
	}

	// Для загрузки нужен привязанный Google-аккаунт с OAuth-токеном
	var googleUser users.GoogleUser
	if err := config.DB.Where("user_id = ?", claims.UserID).First(&googleUser).Error; err != nil {
		writeError(w, http.StatusForbidden, "Google account not linked", err.Error())
		return
	}
	if googleUser.AccessToken == "" {
		writeError(w, http.StatusForbidden, "No Google OAuth token found for the user", "")
		return
	}

	folderID := os.Getenv("GOOGLE_DRIVE_FOLDER_ID")
	webViewLink, err := uploadFileToGoogleDrive(r.Context(), file, header.Filename, googleUser.AccessToken, folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to upload file to Google Drive", err.Error())
		return
	}

	state, err := LoadFormState(config.DB, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load form", err.Error())
		return
	}

	item := forms.MediaItem{
		Type:     mediaType,
		URL:      webViewLink,
		Caption:  r.FormValue("caption"),
		Uploaded: true,
	}
	if _, err := state.AddMedia(projectID, item); err != nil {
		respondEntryError(w, err)
		return
	}

	saveAndRespond(w, state, claims.UserID)
}

// uploadFileToGoogleDrive - загружает файл в Google Drive пользователя
func uploadFileToGoogleDrive(ctx context.Context, file multipart.File, fileName, accessToken, folderID string) (string, error) {
	token := &oauth2.Token{
		AccessToken: accessToken,
	}
	tokenSource := authentication.GoogleOauthConfig.TokenSource(ctx, token)

	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return "", fmt.Errorf("failed to create Drive service: %v", err)
	}

	driveFile := &drive.File{
		Name: fileName,
	}
	if folderID != "" {
		driveFile.Parents = []string{folderID}
	}

	uploadedFile, err := service.Files.Create(driveFile).Media(file).Fields("id", "webViewLink").Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %v", err)
	}

	return uploadedFile.WebViewLink, nil
}
