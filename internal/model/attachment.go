package model

import "time"

// Attachment is a file stored in object storage and bound to a task.
type Attachment struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	ProjectID   string    `json:"projectId"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storagePath"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
