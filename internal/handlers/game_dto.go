package handlers

import (
	"strconv"

	"github.com/vancomm/bombtris-server/internal/session"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

type GameSessionDTO struct {
	SessionId string       `json:"session_id"`
	OwnerId   *int64       `json:"owner_id,omitempty"`
	CreatedAt int64        `json:"created_at"`
	State     tetris.State `json:"state"`
}

func NewGameSessionDTO(s *session.Session) *GameSessionDTO {
	return &GameSessionDTO{
		SessionId: strconv.FormatInt(s.ID, 10),
		OwnerId:   s.OwnerID,
		CreatedAt: s.CreatedAt.UnixMilli(),
		State:     s.State(),
	}
}

// GameRecordDTO is a stored game with its final state decoded.
type GameRecordDTO struct {
	GameRecordId string       `json:"game_record_id"`
	PlayerId     *int64       `json:"player_id,omitempty"`
	Score        int          `json:"score"`
	Level        int          `json:"level"`
	StartedAt    int64        `json:"started_at"`
	EndedAt      int64        `json:"ended_at"`
	State        tetris.State `json:"state"`
}

type HighscoresQuery struct {
	Username string `schema:"username"`
	Limit    int    `schema:"limit"`
}
