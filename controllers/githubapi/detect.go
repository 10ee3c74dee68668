package githubapi

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"internfolio-backend/controllers/authentication"
	"internfolio-backend/services"
)

// Кураторские списки ключевых слов: ключ — паттерн в нижнем регистре,
// значение — отображаемое имя
var frameworkKeywords = map[string]string{
	"react":       "React",
	"nextjs":      "Next.js",
	"next-js":     "Next.js",
	"vue":         "Vue.js",
	"nuxt":        "Nuxt",
	"angular":     "Angular",
	"svelte":      "Svelte",
	"django":      "Django",
	"flask":       "Flask",
	"fastapi":     "FastAPI",
	"rails":       "Ruby on Rails",
	"laravel":     "Laravel",
	"spring":      "Spring",
	"express":     "Express",
	"nestjs":      "NestJS",
	"gin":         "Gin",
	"fiber":       "Fiber",
	"flutter":     "Flutter",
	"tailwind":    "Tailwind CSS",
	"bootstrap":   "Bootstrap",
	"electron":    "Electron",
	"gatsby":      "Gatsby",
	"remix":       "Remix",
	"astro":       "Astro",
	"pytorch":     "PyTorch",
	"tensorflow":  "TensorFlow",
	"supabase":    "Supabase",
	"firebase":    "Firebase",
	"graphql":     "GraphQL",
	"storybook":   "Storybook",
}

var toolKeywords = map[string]string{
	"docker":     "Docker",
	"kubernetes": "Kubernetes",
	"k8s":        "Kubernetes",
	"terraform":  "Terraform",
	"ansible":    "Ansible",
	"jenkins":    "Jenkins",
	"circleci":   "CircleCI",
	"travis":     "Travis CI",
	"webpack":    "Webpack",
	"vite":       "Vite",
	"babel":      "Babel",
	"eslint":     "ESLint",
	"prettier":   "Prettier",
	"jest":       "Jest",
	"cypress":    "Cypress",
	"playwright": "Playwright",
	"selenium":   "Selenium",
	"grafana":    "Grafana",
	"prometheus": "Prometheus",
	"redis":      "Redis",
	"kafka":      "Kafka",
	"rabbitmq":   "RabbitMQ",
	"nginx":      "Nginx",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mongodb":    "MongoDB",
	"mysql":      "MySQL",
	"figma":      "Figma",
	"swagger":    "Swagger",
	"postman":    "Postman",
}

// Паттерны компилируются один раз на весь процесс
var patternCache = map[string]*regexp.Regexp{}

func init() {
	for _, keywords := range []map[string]string{frameworkKeywords, toolKeywords} {
		for pattern := range keywords {
			patternCache[pattern] = regexp.MustCompile(`(^|[^a-z0-9])` + regexp.QuoteMeta(pattern) + `($|[^a-z0-9])`)
		}
	}
}

// DetectKeywords ищет ключевые слова в именах, описаниях и топиках
// репозиториев; возвращает отсортированный список без дублей
func DetectKeywords(repos []services.GithubRepository, keywords map[string]string) []string {
	found := map[string]bool{}

	for _, repo := range repos {
		haystack := strings.ToLower(repo.Name + " " + repo.Description + " " + strings.Join(repo.Topics, " "))
		for pattern, display := range keywords {
			if found[display] {
				continue
			}
			if patternCache[pattern].MatchString(haystack) {
				found[display] = true
			}
		}
	}

	result := make([]string, 0, len(found))
	for name := range found {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func detectHandler(w http.ResponseWriter, r *http.Request, keywords map[string]string, field string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := authentication.GithubToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "GitHub token required", err.Error())
		return
	}

	client := services.NewGithubClient(token)
	repos, err := client.ListRepositories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch repositories", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		field:     DetectKeywords(repos, keywords),
	})
}

// FrameworksHandler — GET /api/github/frameworks
func FrameworksHandler(w http.ResponseWriter, r *http.Request) {
	detectHandler(w, r, frameworkKeywords, "frameworks")
}

// ToolsHandler — GET /api/github/tools
func ToolsHandler(w http.ResponseWriter, r *http.Request) {
	detectHandler(w, r, toolKeywords, "tools")
}
