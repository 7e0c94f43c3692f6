// Package items provides the PostgreSQL-backed catalog item collection.
package items

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/dbx"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save writes the item under its ID, replacing any previous record with the
// same ID.
func (r *PostgresRepository) Save(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, title, image_url, category, color, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			image_url = EXCLUDED.image_url,
			category = EXCLUDED.category,
			color = EXCLUDED.color,
			created_by = EXCLUDED.created_by,
			created_at = EXCLUDED.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.ImageURL,
		nullString(item.Category.String()), nullString(item.Color.String()),
		item.CreatedBy, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListAll returns every item, oldest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Item, error) {
	query := `SELECT id, title, image_url, category, color, created_by, created_at FROM items
		ORDER BY created_at, id
		`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	result := []*models.Item{}
	for rows.Next() {
		var (
			item            models.Item
			category, color sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.ImageURL, &category, &color, &item.CreatedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if category.Valid {
			c := catalog.Category(category.String)
			item.Category = &c
		}
		if color.Valid {
			c := catalog.Color(color.String)
			item.Color = &c
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
