package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ItemTemplateRow is the slice of the item catalog this layer needs:
// identity plus the display fields the equipment join reads.
type ItemTemplateRow struct {
	ID            int32
	Name          string
	DisplayID     int32
	InventoryType int16
	Quality       int16
}

type ItemRepo struct {
	db *DB
}

func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) Exists(ctx context.Context, id int32) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM item_template WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, translate("item exists", err)
}

func (r *ItemRepo) Get(ctx context.Context, id int32) (*ItemTemplateRow, error) {
	t := &ItemTemplateRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, displayid, inventory_type, quality
		 FROM item_template WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.DisplayID, &t.InventoryType, &t.Quality)
	if err != nil {
		return nil, translate("get item template", err)
	}
	return t, nil
}

// GetMultiple fetches templates for a batch of ids in one round trip.
func (r *ItemRepo) GetMultiple(ctx context.Context, ids []int32) ([]ItemTemplateRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, displayid, inventory_type, quality
		 FROM item_template WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, translate("get item templates", err)
	}
	defer rows.Close()

	var result []ItemTemplateRow
	for rows.Next() {
		var t ItemTemplateRow
		if err := rows.Scan(&t.ID, &t.Name, &t.DisplayID, &t.InventoryType, &t.Quality); err != nil {
			return nil, translate("get item templates", err)
		}
		result = append(result, t)
	}
	return result, translate("get item templates", rows.Err())
}

// BulkInsert seeds the catalog inside one transaction, upserting on id so
// reseeding is idempotent.
func (r *ItemRepo) BulkInsert(ctx context.Context, templates []ItemTemplateRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return translate("seed item templates", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range templates {
		if _, err := tx.Exec(ctx,
			`INSERT INTO item_template (id, name, displayid, inventory_type, quality)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id)
			 DO UPDATE SET name = EXCLUDED.name, displayid = EXCLUDED.displayid,
			               inventory_type = EXCLUDED.inventory_type, quality = EXCLUDED.quality`,
			t.ID, t.Name, t.DisplayID, t.InventoryType, t.Quality,
		); err != nil {
			return translate("seed item templates", err)
		}
	}

	return translate("seed item templates", tx.Commit(ctx))
}

// DeleteTemplate removes a catalog entry. The equipment FK is RESTRICT, so
// a template still worn by any character is rejected, never nulled out.
func (r *ItemRepo) DeleteTemplate(ctx context.Context, id int32) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM item_template WHERE id = $1`, id,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("delete item template: %w: still referenced by equipment", ErrConstraintViolation)
		}
		return translate("delete item template", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete item template")
	}
	return nil
}
