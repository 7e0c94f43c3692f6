// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
)

// Item is a catalog record as kept by the document store. Category and
// Color are nil when the creator left them unselected.
type Item struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	ImageURL  string            `json:"imageURL"`
	Category  *catalog.Category `json:"category"`
	Color     *catalog.Color    `json:"color"`
	CreatedBy string            `json:"createdBy,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
