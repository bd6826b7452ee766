package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wrathgo/realmstore/internal/config"
	"github.com/wrathgo/realmstore/internal/names"
	"go.uber.org/zap"
)

// CharacterRecord is the full aggregate: the core row plus every owned
// equipment and account-data row, read from one snapshot.
type CharacterRecord struct {
	Character   CharacterRow
	Equipment   []EquipmentRow
	AccountData []AccountDataRow
}

// Store is the character store facade: the aggregate operations live here,
// single-table operations are delegated to the per-table repos. The store
// holds no session state; every method is safe for concurrent callers.
type Store struct {
	db  *DB
	cfg config.StoreConfig
	log *zap.Logger

	Characters  *CharacterRepo
	Equipment   *EquipmentRepo
	AccountData *AccountDataRepo
	Items       *ItemRepo
}

func NewStore(db *DB, cfg config.StoreConfig, log *zap.Logger) *Store {
	return &Store{
		db:          db,
		cfg:         cfg,
		log:         log,
		Characters:  NewCharacterRepo(db),
		Equipment:   NewEquipmentRepo(db),
		AccountData: NewAccountDataRepo(db),
		Items:       NewItemRepo(db),
	}
}

// CreateCharacter normalizes and validates the name, then inserts exactly
// one row. Duplicate names surface as ErrConstraintViolation via the
// unique index.
func (s *Store) CreateCharacter(ctx context.Context, c *CharacterRow) (int32, error) {
	name, err := names.Normalize(c.Name, s.cfg.NameMinLen, s.cfg.NameMaxLen)
	if err != nil {
		return 0, fmt.Errorf("create character: %w: %v", ErrConstraintViolation, err)
	}
	c.Name = name
	if c.TutorialData == nil {
		c.TutorialData = make([]byte, TutorialDataLen)
	}
	if len(c.TutorialData) != TutorialDataLen {
		return 0, fmt.Errorf("create character: %w: tutorial_data must be %d bytes", ErrConstraintViolation, TutorialDataLen)
	}
	if err := s.Characters.Create(ctx, c); err != nil {
		return 0, err
	}
	s.log.Info("character created",
		zap.Int32("id", c.ID),
		zap.Int32("account_id", c.AccountID),
		zap.String("name", c.Name))
	return c.ID, nil
}

// TutorialDataLen is the fixed width of the tutorial flag bitfield.
const TutorialDataLen = 32

// LoadCharacter reads the whole aggregate from one repeatable-read
// snapshot, so a concurrent multi-row update is observed fully or not at
// all.
func (s *Store) LoadCharacter(ctx context.Context, id int32) (*CharacterRecord, error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, translate("load character", err)
	}
	defer tx.Rollback(ctx)

	character, err := selectCharacter(ctx, tx, id)
	if err != nil {
		return nil, translate("load character", err)
	}
	equipment, err := selectEquipment(ctx, tx, id)
	if err != nil {
		return nil, translate("load character", err)
	}
	accountData, err := selectAccountData(ctx, tx, id)
	if err != nil {
		return nil, translate("load character", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, translate("load character", err)
	}

	return &CharacterRecord{
		Character:   *character,
		Equipment:   equipment,
		AccountData: accountData,
	}, nil
}

// UpdatePosition is the gameplay hot path: one column-scoped statement, no
// transaction, no contact with bind/flag/equipment columns.
func (s *Store) UpdatePosition(ctx context.Context, id int32, mapID, zone, instanceID int32, x, y, z, o float32) error {
	return s.Characters.UpdatePosition(ctx, id, mapID, zone, instanceID, x, y, z, o)
}

func (s *Store) SetBindPoint(ctx context.Context, id int32, zone, mapID int32, x, y, z float32) error {
	return s.Characters.SetBindPoint(ctx, id, zone, mapID, x, y, z)
}

// UpsertAccountData applies the size policy before anything reaches SQL,
// then upserts. A missing character comes back as ErrNotFound via the FK.
func (s *Store) UpsertAccountData(ctx context.Context, id int32, dataType int16, data []byte, decompressedSize int32) error {
	if dataType < 0 || dataType >= s.cfg.AccountDataTypes {
		return fmt.Errorf("upsert account data: %w: data_type %d out of range", ErrConstraintViolation, dataType)
	}
	if err := checkDeclaredSize(data, decompressedSize, s.cfg.MaxAccountDataSize); err != nil {
		return fmt.Errorf("upsert account data: %w", err)
	}
	return s.AccountData.Upsert(ctx, id, dataType, data, decompressedSize)
}

// checkDeclaredSize enforces the store's blob policy. The payload is
// opaque so the true decompressed size cannot be verified here; what can
// be rejected deterministically is:
//   - a non-empty payload declaring a zero or negative size,
//   - a declared size with no payload behind it,
//   - a declared size above the configured ceiling.
func checkDeclaredSize(data []byte, declared, max int32) error {
	switch {
	case len(data) > 0 && declared <= 0:
		return fmt.Errorf("%w: %d bytes declared for %d-byte payload", ErrSizeMismatch, declared, len(data))
	case len(data) == 0 && declared > 0:
		return fmt.Errorf("%w: %d bytes declared for empty payload", ErrSizeMismatch, declared)
	case declared > max:
		return fmt.Errorf("%w: declared %d exceeds limit %d", ErrSizeMismatch, declared, max)
	}
	return nil
}

// SetEquipment upserts one slot. Passing nil item and enchant empties the
// slot. A dangling item id is rejected by the catalog FK and surfaces as
// ErrInvalidReference with the previous slot state untouched.
func (s *Store) SetEquipment(ctx context.Context, id int32, slotID int16, item, enchant *int32) error {
	if slotID < 0 || slotID >= s.cfg.EquipmentSlots {
		return fmt.Errorf("set equipment: %w: slot %d out of range", ErrConstraintViolation, slotID)
	}
	return s.Equipment.Set(ctx, id, slotID, item, enchant)
}

// DeleteCharacter removes the aggregate in one transaction, dependents
// first, root last. The schema's FKs cascade anyway; deleting explicitly
// keeps the no-orphans invariant independent of the FK actions, and the
// transaction keeps a concurrent snapshot reader from seeing a half-gone
// character.
func (s *Store) DeleteCharacter(ctx context.Context, id int32) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return translate("delete character", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM character_account_data WHERE character_id = $1`, id,
	); err != nil {
		return translate("delete character", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM character_equipment WHERE character_id = $1`, id,
	); err != nil {
		return translate("delete character", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return translate("delete character", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete character")
	}
	if err := tx.Commit(ctx); err != nil {
		return translate("delete character", err)
	}

	s.log.Info("character deleted", zap.Int32("id", id))
	return nil
}

// GiveStartingEquipment grants the creation outfit, validating slot bounds
// up front.
func (s *Store) GiveStartingEquipment(ctx context.Context, id int32, items []SlotItem) error {
	for _, it := range items {
		if it.SlotID < 0 || it.SlotID >= s.cfg.EquipmentSlots {
			return fmt.Errorf("give starting equipment: %w: slot %d out of range", ErrConstraintViolation, it.SlotID)
		}
	}
	return s.Equipment.GiveStarting(ctx, id, items)
}

func (s *Store) SetTutorialData(ctx context.Context, id int32, data []byte) error {
	if len(data) != TutorialDataLen {
		return fmt.Errorf("set tutorial data: %w: must be %d bytes", ErrConstraintViolation, TutorialDataLen)
	}
	return s.Characters.SetTutorialData(ctx, id, data)
}
