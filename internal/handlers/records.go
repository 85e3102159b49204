package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/bombtris-server/internal/repository"
)

type RecordsHandler struct {
	log     logrus.FieldLogger
	records RecordStore
	decoder *schema.Decoder
}

func NewRecordsHandler(log logrus.FieldLogger, records RecordStore) *RecordsHandler {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return &RecordsHandler{
		log:     log,
		records: records,
		decoder: dec,
	}
}

func (h *RecordsHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	var query HighscoresQuery
	if err := h.decoder.Decode(&query, r.URL.Query()); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	filter := repository.HighscoreFilter{Limit: query.Limit}
	if query.Username != "" {
		filter.Username = &query.Username
	}

	highscores, err := h.records.GetHighscores(r.Context(), filter)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		internalError(w, h.log, "unable to fetch highscores", err)
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}

	sendJSONOrLog(w, h.log, highscores)
}

func (h *RecordsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	record, err := h.records.GetGameRecord(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, h.log, "unable to fetch game record", err)
		return
	}

	state, err := record.State()
	if err != nil {
		internalError(w, h.log, "db returned invalid game_record.board", err)
		return
	}

	sendJSONOrLog(w, h.log, GameRecordDTO{
		GameRecordId: strconv.FormatInt(record.GameRecordId, 10),
		PlayerId:     record.PlayerId,
		Score:        record.Score,
		Level:        record.Level,
		StartedAt:    record.StartedAt.UnixMilli(),
		EndedAt:      record.EndedAt.UnixMilli(),
		State:        *state,
	})
}
