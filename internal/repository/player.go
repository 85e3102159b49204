package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Player struct {
	PlayerId     int64     `db:"player_id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type CreatePlayerParams struct {
	Username     string
	PasswordHash []byte
}

func (q *Queries) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO player (username, password_hash)
		VALUES (@username, @password_hash)
		RETURNING *`,
		pgx.NamedArgs{
			"username":      params.Username,
			"password_hash": params.PasswordHash,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

// GetPlayer returns pgx.ErrNoRows for an unknown username.
func (q *Queries) GetPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM player WHERE username = $1", username,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}
