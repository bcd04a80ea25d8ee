package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no stored analysis matches a lookup.
var ErrNotFound = errors.New("analysis not found")

// Storage keys
const (
	analysisPrefix = "a/" // followed by the 8-byte position hash and 1-byte depth
	keyStats       = "stats"
)

// MaxDepth is the deepest search a key can record.
const MaxDepth = 255

// Analysis is a stored search result for one position and depth.
type Analysis struct {
	FEN        string    `json:"fen"`
	Depth      int       `json:"depth"`
	Move       string    `json:"move"` // UCI, empty when the side to move has no move
	SAN        string    `json:"san,omitempty"`
	Score      int       `json:"score"` // centipawns, positive when White is better
	Nodes      uint64    `json:"nodes"`
	PV         []string  `json:"pv,omitempty"`
	Line       string    `json:"line,omitempty"` // PV as numbered SAN
	SearchedAt time.Time `json:"searched_at"`
}

// Stats counts cache traffic over the life of the database.
type Stats struct {
	Searches  int    `json:"searches"`
	CacheHits int    `json:"cache_hits"`
	Nodes     uint64 `json:"nodes"`
}

// HitRate returns the share of lookups served from the cache, 0-100.
func (s *Stats) HitRate() float64 {
	total := s.Searches + s.CacheHits
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens the database in dir, or an in-memory database when dir is
// empty. Badger's own log lines go to logger.
func Open(dir string, logger zerolog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir).
		WithInMemory(dir == "").
		WithLogger(badgerLogger{logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open analysis database: %w", err)
	}
	logger.Debug().Str("dir", dir).Bool("in_memory", dir == "").Msg("analysis database opened")
	return &Storage{db: db, log: logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func analysisKey(hash uint64, depth int) []byte {
	key := make([]byte, 0, len(analysisPrefix)+9)
	key = append(key, analysisPrefix...)
	key = binary.BigEndian.AppendUint64(key, hash)
	return append(key, byte(depth))
}

// PutAnalysis stores a under the position hash and a.Depth, replacing any
// earlier result for the same pair.
func (s *Storage) PutAnalysis(hash uint64, a *Analysis) error {
	if a.Depth < 0 || a.Depth > MaxDepth {
		return fmt.Errorf("depth %d out of range", a.Depth)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(analysisKey(hash, a.Depth), data)
	})
}

// GetAnalysis loads the result stored for hash at exactly depth.
func (s *Storage) GetAnalysis(hash uint64, depth int) (*Analysis, error) {
	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("depth %d out of range", depth)
	}
	var a Analysis
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(hash, depth))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%016x depth %d: %w", hash, depth, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// BestAnalysis returns the deepest result stored for hash with a depth of
// at least minDepth.
func (s *Storage) BestAnalysis(hash uint64, minDepth int) (*Analysis, error) {
	prefix := analysisKey(hash, 0)
	prefix = prefix[:len(prefix)-1]

	var best *Analysis
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Keys sort by depth, so the last match is the deepest.
		for it.Seek(analysisKey(hash, max(minDepth, 0))); it.ValidForPrefix(prefix); it.Next() {
			var a Analysis
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			}); err != nil {
				return err
			}
			best = &a
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, fmt.Errorf("%016x depth >= %d: %w", hash, minDepth, ErrNotFound)
	}
	return best, nil
}

// Count returns the number of stored analyses.
func (s *Storage) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(analysisPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// LoadStats loads the cache counters, returning zeroes if none are stored.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordSearch adds one lookup to the counters: a cache hit, or a search
// that visited nodes positions.
func (s *Storage) RecordSearch(hit bool, nodes uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats := &Stats{}
		item, err := txn.Get([]byte(keyStats))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return err
			}
		}

		if hit {
			stats.CacheHits++
		} else {
			stats.Searches++
			stats.Nodes += nodes
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// badgerLogger routes badger's printf-style logging into zerolog. Badger's
// info output is routine, so it is logged at debug level.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}
