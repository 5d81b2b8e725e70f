package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/storage"
)

const (
	defaultSequenceBandwidth = 100
)

// Store is a BadgerDB-backed vector store.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed store at the specified path.
// Creates the directory if it doesn't exist. With inMemory true the path is
// ignored and nothing is persisted.
func Open(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(chunkSeqName), defaultSequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		seq:    seq,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Upsert stores chunks. A chunk whose ID is already indexed overwrites the
// record at its original sequence slot, preserving insertion rank.
func (s *Store) Upsert(ctx context.Context, chunks ...*core.Chunk) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	for _, chunk := range chunks {
		if chunk == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.upsertOne(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertOne(chunk *core.Chunk) error {
	return s.db.Update(func(tx *badger.Txn) error {
		idKey := makeChunkIDKey(chunk.ID)

		var slot uint64
		item, err := tx.Get(idKey)
		switch err {
		case nil:
			err = item.Value(func(val []byte) error {
				var derr error
				slot, derr = decodeSeq(val)
				return derr
			})
			if err != nil {
				return err
			}
		case badger.ErrKeyNotFound:
			slot, err = s.seq.Next()
			if err != nil {
				return err
			}
			if err := tx.Set(idKey, encodeSeq(slot)); err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Set(makeChunkKey(slot), storage.MarshalChunk(chunk))
	})
}

// Replace atomically swaps the stored set for chunks. Existing records are
// dropped and the new set is appended in order.
func (s *Store) Replace(ctx context.Context, chunks []*core.Chunk) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	if err := s.db.DropPrefix([]byte(chunkRecordPrefix + ":")); err != nil {
		return err
	}
	if err := s.db.DropPrefix([]byte(chunkIDPrefix + ":")); err != nil {
		return err
	}
	return s.Upsert(ctx, chunks...)
}

// TopK ranks all stored chunks by cosine similarity to vector, descending.
// The prefix scan walks records in sequence order, so equal scores resolve
// to insertion order after the stable sort.
func (s *Store) TopK(ctx context.Context, vector []float32, k int) ([]*core.Chunk, error) {
	if k <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	if s.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	type scoredChunk struct {
		chunk *core.Chunk
		score float32
	}

	var scored []scoredChunk
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(chunkRecordPrefix + ":")
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				chunk, uerr := storage.UnmarshalChunk(val)
				if uerr != nil {
					return uerr
				}
				scored = append(scored, scoredChunk{
					chunk: chunk,
					score: core.CosineSimilarity(vector, chunk.Embedding),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if k > len(scored) {
		k = len(scored)
	}
	result := make([]*core.Chunk, k)
	for i := 0; i < k; i++ {
		result[i] = scored[i].chunk
	}
	return result, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.db.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(chunkRecordPrefix + ":")
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close releases the ID sequence and closes the database.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("failed to release chunk sequence", "error", err)
	}
	return s.db.Close()
}
