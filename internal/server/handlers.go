package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/notation"
	"github.com/hailam/chesscore/internal/storage"
)

type moveInfo struct {
	UCI       string `json:"uci"`
	SAN       string `json:"san"`
	Capture   string `json:"capture,omitempty"`
	Promotion string `json:"promotion,omitempty"`
	Check     bool   `json:"check"`
	Castle    bool   `json:"castle"`
}

type movesResponse struct {
	FEN       string     `json:"fen"`
	Side      string     `json:"side"`
	Check     bool       `json:"check"`
	Checkmate bool       `json:"checkmate"`
	Stalemate bool       `json:"stalemate"`
	Moves     []moveInfo `json:"moves"`
}

type searchResponse struct {
	*storage.Analysis
	Display string `json:"display"`
	Cached  bool   `json:"cached"`
}

type perftEntry struct {
	Move  string `json:"move"`
	Nodes uint64 `json:"nodes"`
}

type perftResponse struct {
	FEN       string       `json:"fen"`
	Depth     int          `json:"depth"`
	Nodes     uint64       `json:"nodes"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Moves     []perftEntry `json:"moves"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "cache": s.store != nil}
	if s.store != nil {
		n, err := s.store.Count()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		stats, err := s.store.LoadStats()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp["analyses"] = n
		resp["stats"] = stats
		resp["hit_rate"] = stats.HitRate()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) movesHandler(w http.ResponseWriter, r *http.Request) {
	fen, pos, err := positionParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	moves := s.legalMoves(pos)
	resp := movesResponse{
		FEN:       pos.FEN(),
		Side:      pos.SideToMove().String(),
		Check:     pos.InCheck(),
		Checkmate: pos.InCheck() && len(moves) == 0,
		Stalemate: !pos.InCheck() && len(moves) == 0,
		Moves:     make([]moveInfo, 0, len(moves)),
	}
	for _, m := range moves {
		san, err := notation.MoveSAN(fen, m)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		info := moveInfo{
			UCI:    m.String(),
			SAN:    san,
			Check:  m.GivesCheck(),
			Castle: m.IsCastle(),
		}
		if m.IsCapture() {
			info.Capture = m.Captured().String()
		}
		if m.IsPromotion() {
			info.Promotion = m.Promotion().String()
		}
		resp.Moves = append(resp.Moves, info)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	fen, pos, err := positionParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	depth, err := s.depthParam(r.URL.Query().Get("depth"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	a, cached, err := s.analyze(r.Context(), fen, pos, depth, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Analysis: a, Display: engine.FormatScore(a.Score), Cached: cached})
}

func (s *Server) perftHandler(w http.ResponseWriter, r *http.Request) {
	fen, pos, err := positionParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	depth, err := intParam(r.URL.Query().Get("depth"), 1)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if depth < 1 || depth > s.cfg.MaxPerftDepth {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("perft depth must be between 1 and %d", s.cfg.MaxPerftDepth))
		return
	}

	start := time.Now()
	entries, err := board.Divide(r.Context(), pos, depth)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	resp := perftResponse{
		FEN:       fen,
		Depth:     depth,
		ElapsedMS: time.Since(start).Milliseconds(),
		Moves:     make([]perftEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Nodes += e.Nodes
		resp.Moves = append(resp.Moves, perftEntry{Move: e.Move.String(), Nodes: e.Nodes})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// analyze returns a cached analysis of pos at depth or deeper, or searches
// and caches the result. The bool reports a cache hit.
func (s *Server) analyze(ctx context.Context, fen string, pos *board.Position, depth int, onInfo func(engine.Result)) (*storage.Analysis, bool, error) {
	if s.store != nil {
		a, err := s.store.BestAnalysis(pos.Hash, depth)
		switch {
		case err == nil:
			if err := s.store.RecordSearch(true, 0); err != nil {
				s.log.Warn().Err(err).Msg("record cache hit")
			}
			return a, true, nil
		case !errors.Is(err, storage.ErrNotFound):
			s.log.Warn().Err(err).Msg("analysis cache lookup")
		}
	}

	res, err := s.search(ctx, pos, depth, onInfo)
	if err != nil {
		return nil, false, err
	}

	// A forced mate or a finished game holds at any depth, so it is filed
	// under the requested one.
	validDepth := res.Depth
	if _, mate := engine.MateIn(res.Score); mate || res.Move == board.NoMove {
		validDepth = max(validDepth, depth)
	}

	a := &storage.Analysis{
		FEN:        fen,
		Depth:      validDepth,
		Score:      res.Score,
		Nodes:      res.Nodes,
		SearchedAt: time.Now().UTC(),
	}
	if res.Move != board.NoMove {
		a.Move = res.Move.String()
		if a.SAN, err = notation.MoveSAN(fen, res.Move); err != nil {
			return nil, false, err
		}
	}
	for _, m := range res.PV {
		a.PV = append(a.PV, m.String())
	}
	if len(res.PV) > 0 {
		if a.Line, err = notation.Line(fen, res.PV); err != nil {
			return nil, false, err
		}
	}

	s.log.Debug().
		Str("fen", fen).
		Int("depth", a.Depth).
		Str("move", a.Move).
		Int("score", a.Score).
		Uint64("nodes", a.Nodes).
		Msg("search complete")

	if s.store != nil {
		if err := s.store.PutAnalysis(pos.Hash, a); err != nil {
			s.log.Warn().Err(err).Msg("store analysis")
		}
		if err := s.store.RecordSearch(false, res.Nodes); err != nil {
			s.log.Warn().Err(err).Msg("record search")
		}
	}
	return a, false, nil
}

// positionParam reads the fen query parameter, defaulting to the start
// position.
func positionParam(r *http.Request) (string, *board.Position, error) {
	return parsePosition(r.URL.Query().Get("fen"))
}

func parsePosition(fen string) (string, *board.Position, error) {
	if fen == "" {
		fen = board.StartFEN
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return "", nil, err
	}
	return pos.FEN(), pos, nil
}

// depthParam parses a search depth, applying the default and the cap.
func (s *Server) depthParam(v string) (int, error) {
	depth, err := intParam(v, s.cfg.DefaultDepth)
	if err != nil {
		return 0, err
	}
	if depth < 0 {
		return 0, errors.New("depth must not be negative")
	}
	return min(depth, s.cfg.MaxDepth), nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return n, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Int("status", status).Msg("write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
