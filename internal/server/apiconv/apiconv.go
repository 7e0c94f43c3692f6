// Package apiconv renders server models as the wire types of internal/api.
// Both transports share it.
package apiconv

import (
	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
)

func FormState(s form.Snapshot) *api.FormState {
	return &api.FormState{
		Title:     s.Title,
		Category:  s.Category.String(),
		Color:     s.Color.String(),
		ImageURL:  s.ImageURL,
		Busy:      s.Busy,
		Uploading: s.Uploading,
		Progress:  s.Progress,
		Alert: api.Alert{
			Visible:  s.Alert.Visible,
			Message:  s.Alert.Message,
			Severity: string(s.Alert.Severity),
		},
	}
}

func Item(it *models.Item) api.Item {
	return api.Item{
		ID:        it.ID,
		Title:     it.Title,
		ImageURL:  it.ImageURL,
		Category:  it.Category.String(),
		Color:     it.Color.String(),
		CreatedBy: it.CreatedBy,
		CreatedAt: it.CreatedAt,
	}
}

// Items never returns nil so an empty catalog encodes as [].
func Items(list []*models.Item) []api.Item {
	out := make([]api.Item, 0, len(list))
	for _, it := range list {
		out = append(out, Item(it))
	}
	return out
}
