package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/triqui/internal/entity"
)

var errMissingToken = errors.New("missing bearer token")

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	ScoreHandler(w http.ResponseWriter, r *http.Request)
}

type scoreReader interface {
	GetScore(ctx context.Context, owner string) (*entity.ScoreTally, error)
}

type tokenParser interface {
	ParseToken(tokenString string) (string, error)
}

type handlers struct {
	logger *slog.Logger

	scores scoreReader
	auth   tokenParser
}

func NewHandlers(logger *slog.Logger, scores scoreReader, auth tokenParser) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		scores: scores,
		auth:   auth,
	}
}

type scoreResponse struct {
	PlayerID string `json:"player_id"`
	entity.ScoreTally
}

// ScoreHandler returns the local score tally of the player named by the bearer token.
func (that *handlers) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ScoreHandler")

	token, err := bearerToken(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	playerID, err := that.auth.ParseToken(token)
	if err != nil {
		log.Info("rejected token", "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	score, err := that.scores.GetScore(r.Context(), playerID)
	if err != nil {
		log.Error("failed to get score", "playerID", playerID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(scoreResponse{PlayerID: playerID, ScoreTally: *score}); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}

	return strings.TrimSpace(token), nil
}
