package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

type SessionResponse struct {
	Session *ChatSession `json:"session"`
	Project *Project     `json:"project,omitempty"`
}

type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// TurnResponse is the outcome of one chat turn.
type TurnResponse struct {
	Outcome string    `json:"outcome"`
	User    Message   `json:"user"`
	Notices []Message `json:"notices,omitempty"`
	Reply   Message   `json:"reply"`
	Files   []string  `json:"files,omitempty"`
	Project *Project  `json:"project,omitempty"`
}

type ProjectResponse struct {
	Key     string   `json:"key"`
	Project *Project `json:"project"`
}

type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type DeployResponse struct {
	URL    string `json:"url"`
	SiteID string `json:"site_id"`
}
