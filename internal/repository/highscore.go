package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	DefaultHighscoreLimit = 10
	MaxHighscoreLimit     = 100
)

type Highscore struct {
	GameRecordId int64     `json:"game_record_id" db:"game_record_id"`
	Username     *string   `json:"username" db:"username"`
	Score        int       `json:"score" db:"score"`
	Level        int       `json:"level" db:"level"`
	EndedAt      time.Time `json:"ended_at" db:"ended_at"`
}

type HighscoreFilter struct {
	Username *string
	Limit    int
}

func (f HighscoreFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultHighscoreLimit
	case f.Limit > MaxHighscoreLimit:
		return MaxHighscoreLimit
	}
	return f.Limit
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{"limit": f.limit()}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	return strings.Join(clauses, " AND "), args
}

// GetHighscores lists the best scores, earliest first among ties.
func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_record_id,
		username,
		score,
		level,
		ended_at
	FROM game_record
		LEFT OUTER JOIN player USING (player_id)`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY score DESC, ended_at LIMIT @limit;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
