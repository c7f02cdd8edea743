package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/usecase"
)

// handleConnect identifies the player by token, or creates a new one, and resumes a match in progress.
func (that *Server) handleConnect(ctx context.Context, client *client, request *RequestPayload) error {
	log := that.logger.With("method", "handleConnect")

	if _, err := client.requirePlayer(); err == nil {
		return errAlreadyConnected
	}

	var playerID string
	if request.Token != "" {
		id, err := that.auth.ParseToken(request.Token)
		if err != nil {
			return fmt.Errorf("failed to parse token: %w", err)
		}
		playerID = id
	}

	player, err := that.games.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	token, err := that.auth.GenerateToken(player.ID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	session := that.games.NewMatchSession(player.ID, client.soundPlayer())
	if err = client.connect(player, session); err != nil {
		session.Close()
		return err
	}

	client.sendMessage(actionConnect, ResponsePayload{Player: player, Token: token})

	log = log.With("playerID", player.ID)

	if player.InMatch() {
		if _, err = session.Attach(ctx, player.MatchID); err != nil {
			log.Info("previous match not resumed", "matchID", player.MatchID, "error", err)
			client.sendMessage(actionMatchGone, ResponsePayload{Match: entity.DeletedMatch(player.MatchID)})
		} else if err = that.forward(ctx, client, session); err != nil {
			return err
		}
	}

	log.Info("successfully connected player")

	return nil
}

func (that *Server) handleLocalNew(ctx context.Context, client *client, request *RequestPayload) error {
	player, err := client.requirePlayer()
	if err != nil {
		return err
	}

	var difficulty entity.Difficulty
	if request.Difficulty != "" {
		if difficulty, err = entity.ParseDifficulty(request.Difficulty); err != nil {
			return err
		}
	}

	client.closeLocal()

	session, status, err := that.games.NewLocalGame(ctx, player.ID, difficulty, client.soundPlayer(), client.localChanged)
	if err != nil {
		return fmt.Errorf("failed to start local game: %w", err)
	}

	return that.startLocal(client, session, status)
}

func (that *Server) handleLocalResume(ctx context.Context, client *client, _ *RequestPayload) error {
	player, err := client.requirePlayer()
	if err != nil {
		return err
	}

	client.closeLocal()

	session, status, err := that.games.ResumeLocalGame(ctx, player.ID, client.soundPlayer(), client.localChanged)
	if err != nil {
		return fmt.Errorf("failed to resume local game: %w", err)
	}

	return that.startLocal(client, session, status)
}

func (that *Server) startLocal(client *client, session *usecase.LocalSession, status usecase.LocalStatus) error {
	client.localOrder.Lock()
	defer client.localOrder.Unlock()

	client.setLocal(session)
	client.sendMessage(actionLocalState, ResponsePayload{Local: &status})

	return nil
}

func (that *Server) handleLocalMove(ctx context.Context, client *client, request *RequestPayload) error {
	session, err := client.requireLocal()
	if err != nil {
		return err
	}

	if request.Cell == nil {
		return fmt.Errorf("%w: cell is required", errInvalidPayload)
	}

	client.localOrder.Lock()
	defer client.localOrder.Unlock()

	status, err := session.Play(ctx, *request.Cell)
	if err != nil {
		return err
	}

	client.sendMessage(actionLocalState, ResponsePayload{Local: &status})

	return nil
}

func (that *Server) handleLocalReset(ctx context.Context, client *client, _ *RequestPayload) error {
	session, err := client.requireLocal()
	if err != nil {
		return err
	}

	client.localOrder.Lock()
	defer client.localOrder.Unlock()

	status, err := session.Reset(ctx)
	if err != nil {
		return err
	}

	client.sendMessage(actionLocalState, ResponsePayload{Local: &status})

	return nil
}

func (that *Server) handleMatchCreate(ctx context.Context, client *client, _ *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	if _, err = session.CreateMatch(ctx); err != nil {
		return err
	}

	return that.forward(ctx, client, session)
}

func (that *Server) handleMatchJoin(ctx context.Context, client *client, request *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	if request.MatchID == "" {
		return fmt.Errorf("%w: match_id is required", errInvalidPayload)
	}

	if _, err = session.JoinMatch(ctx, request.MatchID); err != nil {
		return err
	}

	return that.forward(ctx, client, session)
}

func (that *Server) handleMatchQuick(ctx context.Context, client *client, _ *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	if _, err = session.QuickMatch(ctx); err != nil {
		return err
	}

	return that.forward(ctx, client, session)
}

// handleMatchMove writes the move. The new state reaches every participant through their streams.
func (that *Server) handleMatchMove(ctx context.Context, client *client, request *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	if request.Cell == nil {
		return fmt.Errorf("%w: cell is required", errInvalidPayload)
	}

	_, err = session.SubmitMove(ctx, *request.Cell)

	return err
}

func (that *Server) handleMatchReset(ctx context.Context, client *client, _ *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	_, err = session.ResetRound(ctx)

	return err
}

func (that *Server) handleMatchLeave(ctx context.Context, client *client, _ *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	if err = session.LeaveMatch(ctx); err != nil {
		return err
	}

	client.sendMessage(actionMatchLeave, ResponsePayload{})

	return nil
}

func (that *Server) handleMatchAbandon(ctx context.Context, client *client, _ *RequestPayload) error {
	session, err := client.requireMatch()
	if err != nil {
		return err
	}

	if err = session.AbandonMatch(ctx); err != nil {
		return err
	}

	client.sendMessage(actionMatchAbandon, ResponsePayload{})

	return nil
}

// forward pushes every observed version of the current match to the client.
// A gone match is reported once and then left, so the player is free to start another.
func (that *Server) forward(ctx context.Context, client *client, session *usecase.MatchSession) error {
	log := that.logger.With("method", "forward", "playerID", session.PlayerID())

	stream, err := session.Observe(ctx)
	if err != nil {
		return err
	}

	client.wg.Add(1)
	go func() {
		defer client.wg.Done()

		for match := range stream.Updates() {
			if !match.IsGone() {
				client.sendMessage(actionMatchState, ResponsePayload{Match: match})
				continue
			}

			client.sendMessage(actionMatchGone, ResponsePayload{Match: match})

			err := session.LeaveMatch(ctx)
			if err != nil && !errors.Is(err, apperror.ErrPlayerNotInGame) && !errors.Is(err, apperror.ErrSessionClosed) {
				log.Error("failed to leave gone match", "matchID", match.ID, "error", err)
			}

			return
		}
	}()

	return nil
}
