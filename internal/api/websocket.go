package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/n8henrie/knapsack/internal/codec"
	"github.com/n8henrie/knapsack/internal/knapsack"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 5 * time.Second
)

type wsFrame struct {
	ID       int64  `json:"id,omitempty"`
	Solution string `json:"solution,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleWebSocket solves one problem per text message until the client goes
// away or stays silent past the read timeout.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	strategy, solver, err := h.solverFor(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid strategy", err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)
	ctx := context.WithoutCancel(r.Context())

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		frame := wsFrame{Error: "expected a text message"}
		if msgType == websocket.TextMessage {
			frame = h.solveFrame(ctx, strategy, solver, string(msg))
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

func (h *Handler) solveFrame(ctx context.Context, strategy knapsack.Strategy, solver knapsack.Solver, text string) wsFrame {
	problem, err := codec.ParseProblem(text)
	if err != nil {
		return wsFrame{Error: err.Error()}
	}
	result, err := h.solve(ctx, strategy, solver, problem)
	if err != nil {
		return wsFrame{Error: err.Error()}
	}
	return wsFrame{ID: result.entry.ID, Solution: result.entry.Solution}
}
