package persist

import (
	"context"
	"time"
)

// AccountDataRow mirrors one character_account_data blob. Data is opaque
// to this layer: the client writes it compressed and declares the
// decompressed size, and the store passes both through untouched.
type AccountDataRow struct {
	CharacterID      int32
	DataType         int16
	Time             int64
	DecompressedSize int32
	Data             []byte
}

func selectAccountData(ctx context.Context, q queryer, characterID int32) ([]AccountDataRow, error) {
	rows, err := q.Query(ctx,
		`SELECT character_id, data_type, time, decompressed_size, data
		 FROM character_account_data WHERE character_id = $1 ORDER BY data_type`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AccountDataRow
	for rows.Next() {
		var d AccountDataRow
		if err := rows.Scan(&d.CharacterID, &d.DataType, &d.Time, &d.DecompressedSize, &d.Data); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

type AccountDataRepo struct {
	db *DB
}

func NewAccountDataRepo(db *DB) *AccountDataRepo {
	return &AccountDataRepo{db: db}
}

func (r *AccountDataRepo) LoadByCharacter(ctx context.Context, characterID int32) ([]AccountDataRow, error) {
	result, err := selectAccountData(ctx, r.db.Pool, characterID)
	if err != nil {
		return nil, translate("load account data", err)
	}
	return result, nil
}

// Get returns one blob by type.
func (r *AccountDataRepo) Get(ctx context.Context, characterID int32, dataType int16) (*AccountDataRow, error) {
	d := &AccountDataRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT character_id, data_type, time, decompressed_size, data
		 FROM character_account_data WHERE character_id = $1 AND data_type = $2`,
		characterID, dataType,
	).Scan(&d.CharacterID, &d.DataType, &d.Time, &d.DecompressedSize, &d.Data)
	if err != nil {
		return nil, translate("get account data", err)
	}
	return d, nil
}

// Upsert replaces the blob for (characterID, dataType) entirely and stamps
// it with the current time.
func (r *AccountDataRepo) Upsert(ctx context.Context, characterID int32, dataType int16, data []byte, decompressedSize int32) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_account_data (character_id, data_type, time, decompressed_size, data)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (character_id, data_type)
		 DO UPDATE SET time = EXCLUDED.time,
		               decompressed_size = EXCLUDED.decompressed_size,
		               data = EXCLUDED.data`,
		characterID, dataType, time.Now().Unix(), decompressedSize, data,
	)
	return translate("upsert account data", err)
}
