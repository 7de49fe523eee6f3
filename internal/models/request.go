package models

type CreateSessionRequest struct {
	ProjectName string `json:"project_name"`
}

type SendMessageRequest struct {
	Text  string           `json:"text"`
	Image *ImageAttachment `json:"image,omitempty"`
}

// ImageAttachment carries an image as base64 data, with or without a
// "data:<mime>;base64," prefix.
type ImageAttachment struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data" binding:"required"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpsertFileRequest struct {
	Name     string `json:"name" binding:"required"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

type RenameFileRequest struct {
	Name string `json:"name" binding:"required"`
}
