package api

import (
	"time"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type GetReferenceRequest struct{}

type GetReferenceResponse struct {
	catalog.ReferenceData
}

// Alert mirrors the form's alert slot.
type Alert struct {
	Visible  bool   `json:"visible"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// FormState is the rendered item form. Category and Color are empty when
// nothing is selected.
type FormState struct {
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Color     string  `json:"color"`
	ImageURL  string  `json:"imageURL"`
	Busy      bool    `json:"busy"`
	Uploading string  `json:"uploading,omitempty"`
	Progress  float64 `json:"progress"`
	Alert     Alert   `json:"alert"`
}

type GetFormRequest struct{}

// UpdateFormRequest changes only the fields that are set. Category and Color
// accept "other" or "" to clear the selection.
type UpdateFormRequest struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// UploadImageRequest is one message of the upload stream. The first message
// carries the file header and may carry data; later ones carry data only.
type UploadImageRequest struct {
	FileName    string `json:"fileName,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Chunk       []byte `json:"chunk,omitempty"`
}

type UploadProgress struct {
	BytesTransferred int64   `json:"bytesTransferred"`
	TotalBytes       int64   `json:"totalBytes"`
	Percent          float64 `json:"percent"`
}

// UploadImageResponse is either a progress event or, last, the outcome with
// the form state.
type UploadImageResponse struct {
	Progress *UploadProgress `json:"progress,omitempty"`
	ImageURL string          `json:"imageURL,omitempty"`
	Form     *FormState      `json:"form,omitempty"`
}

// DeleteImageRequest deletes Address, or the attached image when empty.
type DeleteImageRequest struct {
	Address string `json:"address"`
}

type SaveDetailsRequest struct{}

type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageURL"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type SaveDetailsResponse struct {
	Item *Item     `json:"item,omitempty"`
	Form FormState `json:"form"`
}

type ListItemsRequest struct {
	Refresh bool `json:"refresh"`
}

type ListItemsResponse struct {
	Items []Item `json:"items"`
}
