package persist

import (
	"context"
)

// EquipmentRow represents one equipped slot. Item and Enchant are nil for
// an empty slot / no enchantment.
type EquipmentRow struct {
	CharacterID int32
	SlotID      int16
	Item        *int32
	Enchant     *int32
}

// EquipmentDisplayRow joins a worn slot with the catalog fields the
// character-enum screen renders.
type EquipmentDisplayRow struct {
	SlotID        int16
	Enchant       *int32
	DisplayID     int32
	InventoryType int16
}

func selectEquipment(ctx context.Context, q queryer, characterID int32) ([]EquipmentRow, error) {
	rows, err := q.Query(ctx,
		`SELECT character_id, slot_id, item, enchant
		 FROM character_equipment WHERE character_id = $1 ORDER BY slot_id`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EquipmentRow
	for rows.Next() {
		var e EquipmentRow
		if err := rows.Scan(&e.CharacterID, &e.SlotID, &e.Item, &e.Enchant); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

type EquipmentRepo struct {
	db *DB
}

func NewEquipmentRepo(db *DB) *EquipmentRepo {
	return &EquipmentRepo{db: db}
}

func (r *EquipmentRepo) LoadByCharacter(ctx context.Context, characterID int32) ([]EquipmentRow, error) {
	result, err := selectEquipment(ctx, r.db.Pool, characterID)
	if err != nil {
		return nil, translate("load equipment", err)
	}
	return result, nil
}

// Set upserts one slot. A nil item leaves the slot row present but empty;
// use Clear to drop the row entirely.
func (r *EquipmentRepo) Set(ctx context.Context, characterID int32, slotID int16, item, enchant *int32) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_equipment (character_id, slot_id, item, enchant)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (character_id, slot_id)
		 DO UPDATE SET item = EXCLUDED.item, enchant = EXCLUDED.enchant`,
		characterID, slotID, item, enchant,
	)
	return translate("set equipment", err)
}

// Clear removes the slot row.
func (r *EquipmentRepo) Clear(ctx context.Context, characterID int32, slotID int16) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM character_equipment WHERE character_id = $1 AND slot_id = $2`,
		characterID, slotID,
	)
	return translate("clear equipment", err)
}

// SlotItem pairs a slot with the item to place in it, for the creation
// outfit.
type SlotItem struct {
	SlotID int16
	ItemID int32
}

// GiveStarting bulk-inserts the creation outfit inside one transaction.
// The character must not have any equipment yet; creation is the only
// caller and runs exactly once per character.
func (r *EquipmentRepo) GiveStarting(ctx context.Context, characterID int32, items []SlotItem) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return translate("give starting equipment", err)
	}
	defer tx.Rollback(ctx)

	var existing int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM character_equipment WHERE character_id = $1`, characterID,
	).Scan(&existing); err != nil {
		return translate("give starting equipment", err)
	}
	if existing > 0 {
		return translate("give starting equipment", errAlreadyEquipped)
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_equipment (character_id, slot_id, item, enchant)
			 VALUES ($1, $2, $3, NULL)`,
			characterID, it.SlotID, it.ItemID,
		); err != nil {
			return translate("give starting equipment", err)
		}
	}

	return translate("give starting equipment", tx.Commit(ctx))
}

// Replace swaps the character's whole equipment set (delete + bulk insert)
// in one transaction, for full logout saves.
func (r *EquipmentRepo) Replace(ctx context.Context, characterID int32, rows []EquipmentRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return translate("replace equipment", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM character_equipment WHERE character_id = $1`, characterID,
	); err != nil {
		return translate("replace equipment", err)
	}

	for _, e := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_equipment (character_id, slot_id, item, enchant)
			 VALUES ($1, $2, $3, $4)`,
			characterID, e.SlotID, e.Item, e.Enchant,
		); err != nil {
			return translate("replace equipment", err)
		}
	}

	return translate("replace equipment", tx.Commit(ctx))
}

// DisplayInfo returns the worn items joined with their catalog display
// fields, skipping empty slots.
func (r *EquipmentRepo) DisplayInfo(ctx context.Context, characterID int32) ([]EquipmentDisplayRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT e.slot_id, e.enchant, t.displayid, t.inventory_type
		 FROM character_equipment e
		 JOIN item_template t ON t.id = e.item
		 WHERE e.character_id = $1 AND e.item IS NOT NULL
		 ORDER BY e.slot_id`,
		characterID,
	)
	if err != nil {
		return nil, translate("equipment display info", err)
	}
	defer rows.Close()

	var result []EquipmentDisplayRow
	for rows.Next() {
		var d EquipmentDisplayRow
		if err := rows.Scan(&d.SlotID, &d.Enchant, &d.DisplayID, &d.InventoryType); err != nil {
			return nil, translate("equipment display info", err)
		}
		result = append(result, d)
	}
	return result, translate("equipment display info", rows.Err())
}
