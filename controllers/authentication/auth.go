package authentication

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"internfolio-backend/config"
	"internfolio-backend/models/apperr"
	"internfolio-backend/models/users"
)

var JwtKey = []byte(os.Getenv("JWT_SECRET"))

type Claims struct {
	Email  string `json:"email"`
	UserID uint   `json:"userId"`
	jwt.StandardClaims
}

// ValidateToken извлекает JWT из заголовка Authorization и проверяет подпись
func ValidateToken(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.Wrap(apperr.ErrAuthRequired, "authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorSignatureInvalid)
	}
	return claims, nil
}

// Классический PAT — 40 hex-символов без префикса
var classicPATRegexp = regexp.MustCompile(`^[0-9a-f]{40}$`)

// looksLikeGithubToken распознает токены GitHub: префиксные (ghp_, gho_,
// ghu_, ghs_, ghr_, github_pat_) и классические 40-hex PAT
func looksLikeGithubToken(token string) bool {
	for _, prefix := range []string{"ghp_", "gho_", "ghu_", "ghs_", "ghr_", "github_pat_"} {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return classicPATRegexp.MatchString(token)
}

// GithubToken возвращает bearer-токен для GitHub API: либо из заголовка,
// либо сохраненный OAuth-токен привязанного GitHub-аккаунта
func GithubToken(r *http.Request) (string, error) {
	claims, err := ValidateToken(r)
	if err != nil {
		// Токен GitHub может прийти напрямую заголовком (не наш JWT)
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "token ") {
			return strings.TrimPrefix(authHeader, "token "), nil
		}
		if raw := strings.TrimPrefix(authHeader, "Bearer "); looksLikeGithubToken(raw) {
			return raw, nil
		}
		return "", errors.Wrapf(apperr.ErrAuthRequired, "no usable GitHub credentials: %v", err)
	}

	var githubUser users.GithubUser
	if err := config.DB.Where("user_id = ?", claims.UserID).First(&githubUser).Error; err != nil {
		return "", err
	}
	if githubUser.AccessToken == "" {
		return "", errors.Wrap(apperr.ErrAuthRequired, "no GitHub token for user")
	}
	return githubUser.AccessToken, nil
}

func issueToken(user *users.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// Register: регистрация с паролем
func Register(w http.ResponseWriter, r *http.Request) {
	var user users.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	// Проверка на существование пользователя с таким email
	var existingUser users.User
	if err := config.DB.Where("email = ? AND provider = ?", user.Email, "local").First(&existingUser).Error; err == nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	user.Password = string(hashedPassword)
	user.Provider = "local"

	if err := config.DB.Create(&user).Error; err != nil {
		log.Printf("Ошибка при создании пользователя: %v", err)
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": tokenString,
	})
}

// Login: вход с паролем и генерация JWT
func Login(w http.ResponseWriter, r *http.Request) {
	var inputUser users.User
	if err := json.NewDecoder(r.Body).Decode(&inputUser); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var user users.User
	if err := config.DB.Where("email = ? AND provider = ?", inputUser.Email, "local").First(&user).Error; err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(inputUser.Password)); err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": tokenString})
}

// GetProfile: получение профиля по токену
func GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	user, err := users.GetUserByID(claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Logout: завершение сеанса
func Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := config.Store.Get(r, "session-name")
	delete(session.Values, "user")
	session.Save(r, w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
}
