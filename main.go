package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"internfolio-backend/config"
	"internfolio-backend/controllers/authentication"
	formsctl "internfolio-backend/controllers/forms"
	"internfolio-backend/controllers/githubapi"
	"internfolio-backend/controllers/httpCors"
	"internfolio-backend/controllers/insights"
	portfolioctl "internfolio-backend/controllers/portfolio"
	"internfolio-backend/metrics"
	"internfolio-backend/models/forms"
	"internfolio-backend/models/portfolio"
	"internfolio-backend/models/users"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Устанавливаем порт по умолчанию
	}

	// Инициализируем базу данных
	err := config.InitDB()
	if err != nil {
		log.Fatalf("Ошибка инициализации базы данных: %v", err)
	}

	// Выполняем миграцию базы данных
	err = config.DB.AutoMigrate(
		&users.User{},
		&users.GoogleUser{},
		&users.GithubUser{},
		&forms.Form{},
		&portfolio.Portfolio{},
		&portfolio.Feedback{},
	)
	if err != nil {
		log.Fatalf("Ошибка миграции базы данных: %v", err)
	}

	// Проверка подключения к базе данных
	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatalf("Ошибка получения подключения к базе данных: %v", err)
	}
	err = sqlDB.Ping()
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	log.Println("Подключение к базе данных успешно")

	metrics.Register()

	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	// Авторизация
	mux.HandleFunc("/register", authentication.Register)
	mux.HandleFunc("/login", authentication.Login)
	mux.HandleFunc("/login/google", authentication.HandleGoogleLogin)
	mux.HandleFunc("/callback/google", authentication.HandleGoogleCallback)
	mux.HandleFunc("/login/github", authentication.HandleGithubLogin)
	mux.HandleFunc("/callback/github", authentication.HandleGithubCallback)
	mux.HandleFunc("/profile", authentication.GetProfile)
	mux.HandleFunc("/logout", authentication.Logout)

	// Многошаговая форма отчета
	mux.HandleFunc("/api/form", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			formsctl.GetForm(w, r)
		case http.MethodPut:
			formsctl.SaveForm(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/form/section", formsctl.UpdateSection)
	mux.HandleFunc("/api/form/step", formsctl.StepHandler)
	mux.HandleFunc("/api/form/submit", formsctl.SubmitForm)
	mux.HandleFunc("/api/form/reset", formsctl.ResetForm)
	mux.HandleFunc("/api/form/project", formsctl.ProjectHandler)
	mux.HandleFunc("/api/form/project/pull", formsctl.ProjectEntryHandler("pull"))
	mux.HandleFunc("/api/form/project/media", formsctl.ProjectEntryHandler("media"))
	mux.HandleFunc("/api/form/project/challenge", formsctl.ProjectEntryHandler("challenge"))
	mux.HandleFunc("/api/form/project/ticket", formsctl.ProjectEntryHandler("ticket"))
	mux.HandleFunc("/api/form/project/document", formsctl.ProjectEntryHandler("document"))
	mux.HandleFunc("/api/form/media/upload", formsctl.MediaUpload)

	// GitHub-прокси для автозаполнения
	mux.HandleFunc("/api/github/contributions", githubapi.ContributionsHandler)
	mux.HandleFunc("/api/github/languages", githubapi.LanguagesHandler)
	mux.HandleFunc("/api/github/frameworks", githubapi.FrameworksHandler)
	mux.HandleFunc("/api/github/tools", githubapi.ToolsHandler)
	mux.HandleFunc("/api/github/repositories", githubapi.ReposHandler)
	mux.HandleFunc("/api/github/repository/", githubapi.RepositoryDetailHandler)

	// Публичное портфолио
	mux.HandleFunc("/api/portfolio/publish", portfolioctl.Publish)
	mux.HandleFunc("/api/portfolio/unpublish", portfolioctl.Unpublish)
	mux.HandleFunc("/api/portfolio/me", portfolioctl.MyPortfolio)
	mux.HandleFunc("/api/portfolio/", portfolioctl.PublicPortfolio)

	mux.HandleFunc("/api/feedback", portfolioctl.FeedbackHandler)
	mux.HandleFunc("/api/export/pdf", formsctl.ExportPDF)
	mux.HandleFunc("/api/insights", insights.GenerateInsightsHandler)

	handler := httpCors.CorsSettings().Handler(mux)

	// Запускаем сервер
	log.Printf("Сервер запущен на порту %s", port)
	err = http.ListenAndServe(":"+port, handler)
	if err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
