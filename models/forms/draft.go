package forms

// Draft — черновик отчета стажера. Одна запись на пользователя,
// заполняется по шагам и сериализуется в колонку form_data как JSON.
type Draft struct {
	BasicInfo BasicInfo `json:"basicInfo"`
	TechStack TechStack `json:"techStack"`
	Learning  Learning  `json:"learning"`
	Projects  []Project `json:"projects"`
}

type Teammate struct {
	Name string `json:"name"`
}

type BasicInfo struct {
	FullName       string     `json:"fullName"`
	Email          string     `json:"email,omitempty"`
	InternshipRole string     `json:"internshipRole"`
	TeamDepartment string     `json:"teamDepartment"`
	ManagerName    string     `json:"managerName,omitempty"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	Summary        string     `json:"summary"`
	Teammates      []Teammate `json:"teammates,omitempty"`
}

// Счетчики хранятся строками: фронтенд может прислать и число, и строку
type TechStack struct {
	Languages       []string `json:"languages"`
	Frameworks      []string `json:"frameworks"`
	Tools           []string `json:"tools"`
	OtherTools      string   `json:"otherTools,omitempty"`
	Commits         string   `json:"commits,omitempty"`
	FeaturesShipped string   `json:"featuresShipped,omitempty"`
	LinesOfCode     string   `json:"linesOfCode,omitempty"`
	Contributions   string   `json:"contributions,omitempty"`
}

// Три вида записей обучения — отдельные типы, а не один объект
// с опциональными полями
type TechnicalEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Context string `json:"context"`
	Learned string `json:"learned"`
}

type SoftSkillEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Context string `json:"context"`
	Learned string `json:"learned"`
}

type CollaborationEntry struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Context string   `json:"context"`
	Learned string   `json:"learned"`
	Teams   []string `json:"teams,omitempty"`
}

type Learning struct {
	CurrentlyLearning []string             `json:"currentlyLearning"`
	InterestedIn      []string             `json:"interestedIn"`
	Technical         []TechnicalEntry     `json:"technical"`
	SoftSkills        []SoftSkillEntry     `json:"softSkills"`
	Collaboration     []CollaborationEntry `json:"collaboration"`
}

type PullRequestStatus string

const (
	PRStatusDraft  PullRequestStatus = "Draft"
	PRStatusOpen   PullRequestStatus = "Open"
	PRStatusMerged PullRequestStatus = "Merged"
	PRStatusClosed PullRequestStatus = "Closed"
)

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaDiagram  MediaType = "diagram"
	MediaWorkflow MediaType = "workflow"
	MediaVideo    MediaType = "video"
)

type PullRequest struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Link        string            `json:"link"`
	Status      PullRequestStatus `json:"status"`
	Date        string            `json:"date,omitempty"`
}

type MediaItem struct {
	ID      string    `json:"id"`
	Type    MediaType `json:"type"`
	URL     string    `json:"url"`
	Caption string    `json:"caption,omitempty"`
	// true — файл загружен нами (Google Drive), false — внешняя ссылка
	Uploaded bool `json:"uploaded"`
}

type Challenge struct {
	ID             string   `json:"id"`
	Obstacle       string   `json:"obstacle"`
	Approach       string   `json:"approach"`
	Resolution     string   `json:"resolution"`
	LessonsLearned string   `json:"lessonsLearned,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

type Ticket struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
	Status string `json:"status,omitempty"`
}

type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project и вложенные записи адресуются стабильными сгенерированными ID,
// а не позициями в массиве
type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Role         string        `json:"role"`
	Technologies []string      `json:"technologies"`
	Outcome      string        `json:"outcome,omitempty"`
	StartDate    string        `json:"startDate,omitempty"`
	EndDate      string        `json:"endDate,omitempty"`
	Link         string        `json:"link,omitempty"`
	PullRequests []PullRequest `json:"pullRequests"`
	Media        []MediaItem   `json:"media"`
	Challenges   []Challenge   `json:"challenges"`
	Tickets      []Ticket      `json:"tickets"`
	Documents    []Document    `json:"documents"`
}
