package persist

import (
	"context"
)

// CharacterRow mirrors the characters table.
type CharacterRow struct {
	ID            int32
	AccountID     int32
	Name          string
	Race          int16
	Class         int16
	Gender        int16
	SkinColor     int16
	Face          int16
	HairStyle     int16
	HairColor     int16
	FacialStyle   int16
	PlayerFlags   int32
	AtLoginFlags  int16
	Zone          int32
	Level         int16
	Map           int32
	X             float32
	Y             float32
	Z             float32
	O             float32
	InstanceID    int32
	BindZone      int32
	BindMap       int32
	BindX         float32
	BindY         float32
	BindZ         float32
	GuildID       int32
	TutorialData  []byte // 32 bytes, one bit per tutorial flag
	PlaytimeTotal int32
	PlaytimeLevel int32
}

const characterColumns = `id, account_id, name, race, class, gender,
	        skin_color, face, hair_style, hair_color, facial_style,
	        player_flags, at_login_flags, zone, level,
	        map, x, y, z, o, instance_id,
	        bind_zone, bind_map, bind_x, bind_y, bind_z,
	        guild_id, tutorial_data, playtime_total, playtime_level`

func scanCharacter(row interface{ Scan(dest ...any) error }, c *CharacterRow) error {
	return row.Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Race, &c.Class, &c.Gender,
		&c.SkinColor, &c.Face, &c.HairStyle, &c.HairColor, &c.FacialStyle,
		&c.PlayerFlags, &c.AtLoginFlags, &c.Zone, &c.Level,
		&c.Map, &c.X, &c.Y, &c.Z, &c.O, &c.InstanceID,
		&c.BindZone, &c.BindMap, &c.BindX, &c.BindY, &c.BindZ,
		&c.GuildID, &c.TutorialData, &c.PlaytimeTotal, &c.PlaytimeLevel,
	)
}

func selectCharacter(ctx context.Context, q queryer, id int32) (*CharacterRow, error) {
	c := &CharacterRow{}
	err := scanCharacter(q.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id,
	), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// Create inserts the character row and assigns c.ID. Only the one row is
// written; equipment and account data stay empty until explicitly set.
func (r *CharacterRepo) Create(ctx context.Context, c *CharacterRow) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO characters (
			account_id, name, race, class, gender,
			skin_color, face, hair_style, hair_color, facial_style,
			player_flags, at_login_flags, zone, level,
			map, x, y, z, o, instance_id,
			bind_zone, bind_map, bind_x, bind_y, bind_z,
			guild_id, tutorial_data, playtime_total, playtime_level
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29
		) RETURNING id`,
		c.AccountID, c.Name, c.Race, c.Class, c.Gender,
		c.SkinColor, c.Face, c.HairStyle, c.HairColor, c.FacialStyle,
		c.PlayerFlags, c.AtLoginFlags, c.Zone, c.Level,
		c.Map, c.X, c.Y, c.Z, c.O, c.InstanceID,
		c.BindZone, c.BindMap, c.BindX, c.BindY, c.BindZ,
		c.GuildID, c.TutorialData, c.PlaytimeTotal, c.PlaytimeLevel,
	).Scan(&c.ID)
	return translate("create character", err)
}

func (r *CharacterRepo) Get(ctx context.Context, id int32) (*CharacterRow, error) {
	c, err := selectCharacter(ctx, r.db.Pool, id)
	if err != nil {
		return nil, translate("get character", err)
	}
	return c, nil
}

// ListByAccount returns the account's characters for the enum screen.
func (r *CharacterRepo) ListByAccount(ctx context.Context, accountID int32) ([]CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 ORDER BY id`,
		accountID,
	)
	if err != nil {
		return nil, translate("list characters", err)
	}
	defer rows.Close()

	var result []CharacterRow
	for rows.Next() {
		var c CharacterRow
		if err := scanCharacter(rows, &c); err != nil {
			return nil, translate("list characters", err)
		}
		result = append(result, c)
	}
	return result, translate("list characters", rows.Err())
}

func (r *CharacterRepo) CountByAccount(ctx context.Context, accountID int32) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM characters WHERE account_id = $1`, accountID,
	).Scan(&count)
	return count, translate("count characters", err)
}

func (r *CharacterRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM characters WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, translate("name exists", err)
}

// UpdatePosition writes the placement column group only. This is the hot
// path during gameplay; a single column-scoped statement keeps it from
// racing bind-point or flag writers for the same character.
func (r *CharacterRepo) UpdatePosition(ctx context.Context, id int32, mapID, zone, instanceID int32, x, y, z, o float32) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET map = $2, zone = $3, instance_id = $4,
		        x = $5, y = $6, z = $7, o = $8
		 WHERE id = $1`,
		id, mapID, zone, instanceID, x, y, z, o,
	)
	if err != nil {
		return translate("update position", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update position")
	}
	return nil
}

// SetBindPoint writes the respawn location column group only.
func (r *CharacterRepo) SetBindPoint(ctx context.Context, id int32, zone, mapID int32, x, y, z float32) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET bind_zone = $2, bind_map = $3,
		        bind_x = $4, bind_y = $5, bind_z = $6
		 WHERE id = $1`,
		id, zone, mapID, x, y, z,
	)
	if err != nil {
		return translate("set bind point", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("set bind point")
	}
	return nil
}

func (r *CharacterRepo) UpdatePlayerFlags(ctx context.Context, id int32, flags int32) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET player_flags = $2 WHERE id = $1`, id, flags,
	)
	if err != nil {
		return translate("update player flags", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update player flags")
	}
	return nil
}

func (r *CharacterRepo) UpdateAtLoginFlags(ctx context.Context, id int32, flags int16) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET at_login_flags = $2 WHERE id = $1`, id, flags,
	)
	if err != nil {
		return translate("update at-login flags", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("update at-login flags")
	}
	return nil
}

// SetTutorialData replaces the 32-byte tutorial flag bitfield.
func (r *CharacterRepo) SetTutorialData(ctx context.Context, id int32, data []byte) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET tutorial_data = $2 WHERE id = $1`, id, data,
	)
	if err != nil {
		return translate("set tutorial data", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("set tutorial data")
	}
	return nil
}

// AddPlaytime increments both playtime counters by the given seconds.
func (r *CharacterRepo) AddPlaytime(ctx context.Context, id int32, seconds int32) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET playtime_total = playtime_total + $2,
		        playtime_level = playtime_level + $2
		 WHERE id = $1`,
		id, seconds,
	)
	if err != nil {
		return translate("add playtime", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("add playtime")
	}
	return nil
}

// SetLevel sets the level and restarts the per-level playtime counter.
func (r *CharacterRepo) SetLevel(ctx context.Context, id int32, level int16) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET level = $2, playtime_level = 0 WHERE id = $1`,
		id, level,
	)
	if err != nil {
		return translate("set level", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("set level")
	}
	return nil
}
