package authentication

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"internfolio-backend/config"
	"internfolio-backend/models/users"
)

var GoogleOauthConfig = &oauth2.Config{
	RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
	ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
		"https://www.googleapis.com/auth/drive.file",
	},
	Endpoint: google.Endpoint,
}

// HandleGoogleLogin initiates Google OAuth login
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := "google"
	url := GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleGoogleCallback processes the OAuth callback and retrieves user info from Google
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := "google"
	if r.FormValue("state") != state {
		log.Println("Invalid OAuth state")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	token, err := GoogleOauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Printf("Error while exchanging code for token: %s", err.Error())
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		log.Printf("Error while fetching user info: %s", err.Error())
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading response: %s", err.Error())
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	var userInfo map[string]interface{}
	if err := json.Unmarshal(content, &userInfo); err != nil {
		log.Printf("Error parsing user info: %s", err.Error())
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	googleID, ok := userInfo["id"].(string)
	if !ok {
		log.Println("Error extracting Google ID")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	email, ok := userInfo["email"].(string)
	if !ok {
		log.Println("Error extracting email")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	firstName, _ := userInfo["given_name"].(string)
	lastName, _ := userInfo["family_name"].(string)
	picture, _ := userInfo["picture"].(string)

	// Проверка, существует ли пользователь с таким email
	var user users.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = users.User{
				Email:       email,
				Name:        firstName + " " + lastName,
				AvatarURL:   picture,
				Provider:    "google",
				AccessToken: token.AccessToken,
			}
			if err := config.DB.Create(&user).Error; err != nil {
				log.Printf("Ошибка при создании пользователя: %v", err)
				http.Error(w, "Error creating user", http.StatusInternalServerError)
				return
			}
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	// Проверка или обновление GoogleUser
	var googleUser users.GoogleUser
	if err := config.DB.Where("google_id = ?", googleID).First(&googleUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			googleUser = users.GoogleUser{
				UserID:      user.ID,
				GoogleID:    googleID,
				Email:       email,
				FirstName:   firstName,
				LastName:    lastName,
				AccessToken: token.AccessToken,
			}
			if err := config.DB.Create(&googleUser).Error; err != nil {
				http.Error(w, "Error creating GoogleUser", http.StatusInternalServerError)
				return
			}
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	} else {
		googleUser.Email = email
		googleUser.FirstName = firstName
		googleUser.LastName = lastName
		googleUser.AccessToken = token.AccessToken
		if err := config.DB.Save(&googleUser).Error; err != nil {
			http.Error(w, "Error updating GoogleUser", http.StatusInternalServerError)
			return
		}
	}

	// Выдаем наш JWT и сохраняем сессию
	tokenString, err := issueToken(&user)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	session, _ := config.Store.Get(r, "session-name")
	session.Values["userID"] = user.ID
	if err := session.Save(r, w); err != nil {
		log.Printf("Ошибка при сохранении сессии: %s", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": tokenString})
}
