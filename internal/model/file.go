package model

const (
	FileTypeGoalPicture = "goal_picture"
)

// StoredFile describes an object written to file storage.
type StoredFile struct {
	Type         string `json:"type"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	StoragePath  string `json:"storagePath"`
	URL          string `json:"url"`
}
