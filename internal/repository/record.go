package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/bombtris-server/internal/tetris"
)

// GameRecord is a finished game. Board holds the gob encoded final state.
type GameRecord struct {
	GameRecordId int64     `db:"game_record_id"`
	PlayerId     *int64    `db:"player_id"`
	Score        int       `db:"score"`
	Level        int       `db:"level"`
	Board        []byte    `db:"board"`
	StartedAt    time.Time `db:"started_at"`
	EndedAt      time.Time `db:"ended_at"`
}

func (r GameRecord) State() (*tetris.State, error) {
	return tetris.DecodeState(r.Board)
}

type CreateGameRecordParams struct {
	PlayerId  *int64
	Score     int
	Level     int
	Board     []byte
	StartedAt time.Time
}

func NewCreateGameRecordParams(
	state tetris.State, playerId *int64, startedAt time.Time,
) (CreateGameRecordParams, error) {
	board, err := state.Bytes()
	if err != nil {
		return CreateGameRecordParams{}, err
	}
	params := CreateGameRecordParams{
		PlayerId:  playerId,
		Score:     state.Score,
		Level:     state.Level,
		Board:     board,
		StartedAt: startedAt,
	}
	return params, nil
}

func (p CreateGameRecordParams) Args() pgx.NamedArgs {
	args := pgx.NamedArgs{
		"player_id":  nil,
		"score":      p.Score,
		"level":      p.Level,
		"board":      p.Board,
		"started_at": p.StartedAt,
	}
	if p.PlayerId != nil {
		args["player_id"] = *p.PlayerId
	}
	return args
}

func (q *Queries) CreateGameRecord(
	ctx context.Context, params CreateGameRecordParams,
) (*GameRecord, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (player_id, score, level, board, started_at)
		VALUES (@player_id, @score, @level, @board, @started_at)
		RETURNING *`,
		params.Args(),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameRecord])
}

func (q *Queries) GetGameRecord(ctx context.Context, gameRecordId int64) (*GameRecord, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_record WHERE game_record_id = $1",
		gameRecordId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameRecord])
}
