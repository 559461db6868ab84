// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/candidates"
	"github.com/danielhkuo/movie-night/cliparse"
	"github.com/danielhkuo/movie-night/election"
	"github.com/danielhkuo/movie-night/metrics"
	"github.com/danielhkuo/movie-night/middleware"
	"github.com/danielhkuo/movie-night/models"
)

// HistoryLimit is how many past elections the history command shows.
const HistoryLimit = 5

// Engine is the set of election operations reachable from chat commands.
type Engine interface {
	Nominate(ctx context.Context, q models.CandidateQuery, nominator string) (string, error)
	Start(ctx context.Context) (string, error)
	End(ctx context.Context) (string, error)
	Cast(ctx context.Context, voter string, sel election.Selector) (string, error)
	Voters(ctx context.Context) (string, error)
	Nominations(ctx context.Context) (string, error)
	Stats(ctx context.Context) (string, error)
	History(ctx context.Context, limit int) (string, error)
}

type InteractionHandler struct {
	engine    Engine
	publicKey ed25519.PublicKey
	cfg       cliparse.Config
}

func NewInteractionHandler(engine Engine, publicKey ed25519.PublicKey, cfg cliparse.Config) *InteractionHandler {
	return &InteractionHandler{engine: engine, publicKey: publicKey, cfg: cfg}
}

// Handle handles POST /interactions
func (h *InteractionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := middleware.ReadBody(r)
	if errors.Is(err, middleware.ErrBodyTooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unreadable request body")
		return
	}

	// Verify signature
	if !h.cfg.SkipVerify {
		if err := auth.VerifyRequest(h.publicKey, r, body); err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid request signature")
			return
		}
	}

	var in models.Interaction
	if err := json.Unmarshal(body, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if in.Type == models.InteractionPing {
		middleware.JSONResponse(w, http.StatusOK, models.InteractionResponse{Type: models.ResponsePong})
		return
	}

	slog.Info("interaction received", "command", in.Data.Name, "user", in.Username())

	content := h.dispatch(r.Context(), &in)

	middleware.JSONResponse(w, http.StatusOK, models.InteractionResponse{
		Type: models.ResponseChannelMessage,
		Data: &models.MessageData{Content: content},
	})
}

func (h *InteractionHandler) dispatch(ctx context.Context, in *models.Interaction) string {
	command := in.Data.Name

	var (
		reply string
		err   error
	)
	switch command {
	case "nominate":
		reply, err = h.nominate(ctx, in)
	case "vote":
		var action string
		action, reply, err = h.vote(ctx, in)
		if action == "" {
			metrics.Commands.WithLabelValues(command, "unknown").Inc()
			return reply
		}
		command = "vote " + action
	case "stats":
		reply, err = h.engine.Stats(ctx)
	default:
		metrics.Commands.WithLabelValues("unknown", "unknown").Inc()
		return NoCommandMessage(command)
	}

	if err != nil {
		msg, known := Message(command, err)
		if known {
			metrics.Commands.WithLabelValues(command, "rejected").Inc()
		} else {
			metrics.Commands.WithLabelValues(command, "error").Inc()
			slog.Error("command failed", "command", command, "user", in.Username(), "error", err)
		}
		return msg
	}

	metrics.Commands.WithLabelValues(command, "ok").Inc()
	return reply
}

func (h *InteractionHandler) nominate(ctx context.Context, in *models.Interaction) (string, error) {
	if len(in.Data.Options) == 0 {
		return "Tell me which movie to nominate!", nil
	}
	user := in.Username()
	if user == "" {
		return "", errUnknownUser
	}

	opt := in.Data.Options[0]
	q := candidates.ParseQuery(string(opt.Value))
	if opt.Name == "id" {
		q = candidates.IDQuery(string(opt.Value))
	}
	return h.engine.Nominate(ctx, q, user)
}

// vote dispatches the vote sub-commands. An empty action means the
// sub-command was not recognised and reply holds the fallback message.
func (h *InteractionHandler) vote(ctx context.Context, in *models.Interaction) (action, reply string, err error) {
	if len(in.Data.Options) == 0 {
		return "", NoCommandMessage(in.Data.Name), nil
	}
	sub := in.Data.Options[0]

	switch sub.Name {
	case "start":
		reply, err = h.engine.Start(ctx)
	case "end":
		reply, err = h.engine.End(ctx)
	case "voters":
		reply, err = h.engine.Voters(ctx)
	case "nominations":
		reply, err = h.engine.Nominations(ctx)
	case "history":
		reply, err = h.engine.History(ctx, HistoryLimit)
	case "cast":
		reply, err = h.cast(ctx, in, sub)
	default:
		return "", NoCommandMessage(sub.Name), nil
	}
	return sub.Name, reply, err
}

func (h *InteractionHandler) cast(ctx context.Context, in *models.Interaction, sub models.CommandOption) (string, error) {
	voter := in.Username()
	if voter == "" {
		return "", errUnknownUser
	}

	value := sub.Value
	if len(sub.Options) > 0 {
		value = sub.Options[0].Value
	}

	sel, err := election.ParseSelector(string(value))
	if err != nil {
		return "", err
	}
	return h.engine.Cast(ctx, voter, sel)
}
