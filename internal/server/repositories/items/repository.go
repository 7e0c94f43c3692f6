package items

import (
	"context"

	"github.com/dmitrijs2005/framekeeper/internal/server/models"
)

type Repository interface {
	Save(ctx context.Context, item *models.Item) error
	ListAll(ctx context.Context) ([]*models.Item, error)
}
