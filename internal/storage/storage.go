// Package storage keeps engine preferences and finished analyses in a
// badger database.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/hailam/stiker/internal/engine"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: not found")

// Storage keys
const (
	keyPreferences    = "preferences"
	prefixAnalysis    = "analysis/"
	prefixAnalysisLen = len(prefixAnalysis)
)

// Preferences are the engine settings remembered between runs.
type Preferences struct {
	HashMB     int  `json:"hash_mb"`
	MoveTimeMs int  `json:"move_time_ms"`
	MaxDepth   int  `json:"max_depth"`
	UseCache   bool `json:"use_cache"`
}

// DefaultPreferences mirrors engine.DefaultOptions with the cache enabled.
func DefaultPreferences() Preferences {
	def := engine.DefaultOptions()
	return Preferences{
		HashMB:     def.HashMB,
		MoveTimeMs: int(def.MoveTime.Milliseconds()),
		MaxDepth:   def.MaxDepth,
		UseCache:   true,
	}
}

// Store wraps a badger database. Analyses are stored zstd-compressed.
type Store struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Store{db: db, encoder: encoder, decoder: decoder}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// SavePreferences stores prefs.
func (s *Store) SavePreferences(prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences returns the stored preferences, or the defaults when none
// were saved.
func (s *Store) LoadPreferences() (Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &prefs)
		})
	})
	return prefs, err
}

func analysisKey(hash uint64) []byte {
	key := make([]byte, prefixAnalysisLen+8)
	copy(key, prefixAnalysis)
	binary.BigEndian.PutUint64(key[prefixAnalysisLen:], hash)
	return key
}

// RecordAnalysis stores a finished analysis under the position hash. A
// shallower analysis never replaces a deeper one.
func (s *Store) RecordAnalysis(hash uint64, a engine.Analysis) error {
	old, err := s.Analysis(hash)
	switch {
	case err == nil && old.FEN == a.FEN && old.Depth > a.Depth:
		return nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	compressed := s.encoder.EncodeAll(data, nil)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(analysisKey(hash), compressed)
	})
}

// Analysis returns the analysis stored under hash, or ErrNotFound.
func (s *Store) Analysis(hash uint64) (engine.Analysis, error) {
	var a engine.Analysis
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data, err := s.decoder.DecodeAll(val, nil)
			if err != nil {
				return fmt.Errorf("decompress analysis: %w", err)
			}
			return json.Unmarshal(data, &a)
		})
	})
	return a, err
}

// LookupAnalysis implements engine.AnalysisCache.
func (s *Store) LookupAnalysis(hash uint64) (engine.Analysis, bool, error) {
	a, err := s.Analysis(hash)
	if errors.Is(err, ErrNotFound) {
		return engine.Analysis{}, false, nil
	}
	if err != nil {
		return engine.Analysis{}, false, err
	}
	return a, true, nil
}

// AnalysisCount returns the number of stored analyses.
func (s *Store) AnalysisCount() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixAnalysis)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// ClearAnalyses deletes every stored analysis.
func (s *Store) ClearAnalyses() error {
	return s.db.DropPrefix([]byte(prefixAnalysis))
}
