package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"careerpilot/internal/domain"
)

var (
	bucketChunks = []byte("chunks")
	bucketMeta   = []byte("meta")
	keyManifest  = []byte("manifest")
)

// openBolt is swapped in tests to simulate open failures.
var openBolt = bbolt.Open

// ChunkStore is the ordered chunk collection whose rows line up with a
// FlatIndex. It lives in memory and is persisted as a bbolt file.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

func (s *ChunkStore) Append(chunks ...domain.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
}

func (s *ChunkStore) Get(row int) (domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row < 0 || row >= len(s.chunks) {
		return domain.Chunk{}, fmt.Errorf("%w: row %d, store has %d chunks", domain.ErrIndexOutOfRange, row, len(s.chunks))
	}
	return s.chunks[row], nil
}

func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// All returns a copy of every chunk in row order.
func (s *ChunkStore) All() []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

func (s *ChunkStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
}

// Save writes every chunk and the manifest to a fresh bbolt file at path.
// The previous file is only replaced once the new one is complete.
func (s *ChunkStore) Save(path string, manifest domain.IndexManifest) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmp := path + ".tmp"
	os.Remove(tmp)

	db, err := openBolt(tmp, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to open bolt db: %w", err)
	}

	manifest.SchemaVersion = CurrentSchemaVersion
	manifest.Count = len(s.chunks)

	err = db.Update(func(tx *bbolt.Tx) error {
		chunks, err := tx.CreateBucket(bucketChunks)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketChunks, err)
		}
		for i, c := range s.chunks {
			data, err := json.Marshal(c)
			if err != nil {
				return err
			}
			if err := chunks.Put(rowKey(i), data); err != nil {
				return err
			}
		}

		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketMeta, err)
		}
		if err := putSchemaVersion(meta, CurrentSchemaVersion); err != nil {
			return err
		}
		data, err := json.Marshal(manifest)
		if err != nil {
			return err
		}
		return meta.Put(keyManifest, data)
	})
	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save chunks: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Load replaces the store contents with the chunks persisted at path and
// returns the manifest written with them.
func (s *ChunkStore) Load(path string) (domain.IndexManifest, error) {
	var manifest domain.IndexManifest

	if _, err := os.Stat(path); err != nil {
		return manifest, fmt.Errorf("failed to open chunk store: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return manifest, fmt.Errorf("%w: failed to open bolt db: %v", domain.ErrCorruptIndex, err)
	}
	defer db.Close()

	var chunks []domain.Chunk
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("%w: missing %s bucket", domain.ErrCorruptIndex, bucketMeta)
		}
		m, err := readManifest(meta)
		if err != nil {
			return err
		}
		manifest = m

		b := tx.Bucket(bucketChunks)
		if b == nil {
			return fmt.Errorf("%w: missing %s bucket", domain.ErrCorruptIndex, bucketChunks)
		}
		chunks = make([]domain.Chunk, 0, manifest.Count)
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 || int(binary.BigEndian.Uint64(k)) != len(chunks) {
				return fmt.Errorf("%w: rows are not contiguous at %d", domain.ErrCorruptIndex, len(chunks))
			}
			var c domain.Chunk
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("%w: row %d: %v", domain.ErrCorruptIndex, len(chunks), err)
			}
			chunks = append(chunks, c)
			return nil
		})
	})
	if err != nil {
		return manifest, err
	}
	if len(chunks) != manifest.Count {
		return manifest, fmt.Errorf("%w: manifest lists %d chunks, found %d", domain.ErrCorruptIndex, manifest.Count, len(chunks))
	}

	s.mu.Lock()
	s.chunks = chunks
	s.mu.Unlock()
	return manifest, nil
}

func rowKey(row int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(row))
	return k
}
