package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/bombtris-server/internal/repository"
)

// PlayerStore is the part of the repository the auth handlers use.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	GetPlayer(ctx context.Context, username string) (*repository.Player, error)
}

// RecordStore is the part of the repository the game and record handlers use.
type RecordStore interface {
	CreateGameRecord(ctx context.Context, params repository.CreateGameRecordParams) (*repository.GameRecord, error)
	GetGameRecord(ctx context.Context, gameRecordId int64) (*repository.GameRecord, error)
	GetHighscores(ctx context.Context, filter repository.HighscoreFilter) ([]repository.Highscore, error)
}

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendErrorOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, err error) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(wrapError(err)); encodeErr != nil {
		log.WithError(encodeErr).Error("unable to send error")
	}
}

func internalError(w http.ResponseWriter, log logrus.FieldLogger, msg string, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	log.WithError(err).Error(msg)
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
