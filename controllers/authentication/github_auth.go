package authentication

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"gorm.io/gorm"

	"internfolio-backend/config"
	"internfolio-backend/models/users"
)

var GithubOauthConfig = &oauth2.Config{
	ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
	ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
	RedirectURL:  os.Getenv("GITHUB_REDIRECT_URL"),
	Scopes:       []string{"read:user", "user:email", "repo"},
	Endpoint:     github.Endpoint,
}

type githubUserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// HandleGithubLogin — начало авторизации через GitHub
func HandleGithubLogin(w http.ResponseWriter, r *http.Request) {
	url := GithubOauthConfig.AuthCodeURL("github", oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleGithubCallback — обрабатывает ответ от GitHub и сохраняет пользователя.
// OAuth-токен сохраняется: он же используется как bearer для GitHub API
func HandleGithubCallback(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("state") != "github" {
		log.Println("Invalid OAuth state")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	token, err := GithubOauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Printf("Error exchanging token: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	info, err := fetchGithubUser(token)
	if err != nil {
		log.Printf("Error fetching GitHub user: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	// У пользователя может быть скрыт email — подставляем noreply-адрес
	email := info.Email
	if email == "" {
		email = info.Login + "@users.noreply.github.com"
	}
	name := info.Name
	if name == "" {
		name = info.Login
	}

	var user users.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = users.User{
				Email:       email,
				Name:        name,
				AvatarURL:   info.AvatarURL,
				Provider:    "github",
				AccessToken: token.AccessToken,
			}
			if err := config.DB.Create(&user).Error; err != nil {
				http.Error(w, "Error creating user", http.StatusInternalServerError)
				return
			}
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	var githubUser users.GithubUser
	if err := config.DB.Where("github_id = ?", info.ID).First(&githubUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			githubUser = users.GithubUser{
				UserID:      user.ID,
				GithubID:    info.ID,
				Login:       info.Login,
				Email:       email,
				AvatarURL:   info.AvatarURL,
				AccessToken: token.AccessToken,
			}
			if err := config.DB.Create(&githubUser).Error; err != nil {
				http.Error(w, "Error creating GithubUser", http.StatusInternalServerError)
				return
			}
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	} else {
		githubUser.Login = info.Login
		githubUser.AvatarURL = info.AvatarURL
		githubUser.AccessToken = token.AccessToken
		if err := config.DB.Save(&githubUser).Error; err != nil {
			http.Error(w, "Error updating GithubUser", http.StatusInternalServerError)
			return
		}
	}

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

func fetchGithubUser(token *oauth2.Token) (*githubUserInfo, error) {
	req, err := http.NewRequest("GET", "https://api.github.com/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info githubUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
