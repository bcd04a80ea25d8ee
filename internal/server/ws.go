package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/hailam/chesscore/internal/engine"
)

// wsRequest asks for a search over the websocket.
type wsRequest struct {
	FEN   string `json:"fen"`
	Depth *int   `json:"depth,omitempty"`
}

// wsMessage is sent back for every completed iteration ("info"), once per
// request with the final analysis ("result"), or on failure ("error").
type wsMessage struct {
	Type      string          `json:"type"`
	Depth     int             `json:"depth,omitempty"`
	Score     int             `json:"score"`
	Display   string          `json:"display,omitempty"`
	Nodes     uint64          `json:"nodes,omitempty"`
	PV        []string        `json:"pv,omitempty"`
	ElapsedMS int64           `json:"elapsed_ms,omitempty"`
	Result    *searchResponse `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Msg("websocket read")
			}
			return
		}
		if err := s.handleWSRequest(r, conn, data); err != nil {
			s.log.Debug().Err(err).Msg("websocket write")
			return
		}
	}
}

// handleWSRequest runs one search and streams its progress. Only write
// failures are returned; request errors are reported to the client.
func (s *Server) handleWSRequest(r *http.Request, conn *websocket.Conn, data []byte) error {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return send(conn, wsMessage{Type: "error", Error: fmt.Sprintf("invalid request: %v", err)})
	}
	fen, pos, err := parsePosition(req.FEN)
	if err != nil {
		return send(conn, wsMessage{Type: "error", Error: err.Error()})
	}
	depth := s.cfg.DefaultDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	if depth < 0 {
		return send(conn, wsMessage{Type: "error", Error: "depth must not be negative"})
	}
	depth = min(depth, s.cfg.MaxDepth)

	// The engine calls OnInfo on this goroutine, so writes stay serialized.
	var writeErr error
	onInfo := func(res engine.Result) {
		if writeErr != nil {
			return
		}
		msg := wsMessage{
			Type:      "info",
			Depth:     res.Depth,
			Score:     res.Score,
			Display:   engine.FormatScore(res.Score),
			Nodes:     res.Nodes,
			ElapsedMS: res.Elapsed.Milliseconds(),
		}
		for _, m := range res.PV {
			msg.PV = append(msg.PV, m.String())
		}
		writeErr = send(conn, msg)
	}

	a, cached, err := s.analyze(r.Context(), fen, pos, depth, onInfo)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		return send(conn, wsMessage{Type: "error", Error: err.Error()})
	}
	return send(conn, wsMessage{
		Type:    "result",
		Depth:   a.Depth,
		Score:   a.Score,
		Display: engine.FormatScore(a.Score),
		Nodes:   a.Nodes,
		PV:      a.PV,
		Result:  &searchResponse{Analysis: a, Display: engine.FormatScore(a.Score), Cached: cached},
	})
}

func send(conn *websocket.Conn, msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
