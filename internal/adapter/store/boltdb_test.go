package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"careerpilot/internal/domain"
)

func sampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{Text: "Senior engineer at Acme", SourceID: "cv.pdf", Position: 0},
		{Text: "BSc Computer Science", SourceID: "cv.pdf", Position: 1},
		{Text: "Python, Go, SQL", SourceID: "skills.txt", Position: 0},
	}
}

func TestChunkStore_Get(t *testing.T) {
	s := NewChunkStore()
	s.Append(sampleChunks()...)

	c, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "skills.txt", c.SourceID)
	assert.Equal(t, 3, s.Len())

	_, err = s.Get(3)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = s.Get(-1)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestChunkStore_AllIsCopy(t *testing.T) {
	s := NewChunkStore()
	s.Append(sampleChunks()...)

	all := s.All()
	all[0].Text = "changed"

	c, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Senior engineer at Acme", c.Text)
}

func TestChunkStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.db")

	s := NewChunkStore()
	s.Append(sampleChunks()...)
	require.NoError(t, s.Save(path, domain.IndexManifest{
		Corpus:    "cv",
		Model:     "hash-384",
		Dimension: 384,
	}))

	loaded := NewChunkStore()
	manifest, err := loaded.Load(path)
	require.NoError(t, err)

	assert.Equal(t, sampleChunks(), loaded.All())
	assert.Equal(t, CurrentSchemaVersion, manifest.SchemaVersion)
	assert.Equal(t, "cv", manifest.Corpus)
	assert.Equal(t, "hash-384", manifest.Model)
	assert.Equal(t, 384, manifest.Dimension)
	assert.Equal(t, 3, manifest.Count)
}

func TestChunkStore_SaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.db")

	s := NewChunkStore()
	s.Append(sampleChunks()...)
	require.NoError(t, s.Save(path, domain.IndexManifest{Model: "m"}))

	s.Reset()
	s.Append(domain.Chunk{Text: "only", SourceID: "a.txt"})
	require.NoError(t, s.Save(path, domain.IndexManifest{Model: "m"}))

	loaded := NewChunkStore()
	_, err := loaded.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestChunkStore_LoadMissing(t *testing.T) {
	_, err := NewChunkStore().Load(filepath.Join(t.TempDir(), "none.db"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChunkStore_LoadCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.db")

	s := NewChunkStore()
	s.Append(sampleChunks()...)
	require.NoError(t, s.Save(path, domain.IndexManifest{Model: "m"}))

	// drop the last chunk behind the manifest's back
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChunks).Delete(rowKey(2))
	}))
	require.NoError(t, db.Close())

	_, err = NewChunkStore().Load(path)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestChunkStore_LoadNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.db")

	s := NewChunkStore()
	require.NoError(t, s.Save(path, domain.IndexManifest{Model: "m"}))

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		return putSchemaVersion(tx.Bucket(bucketMeta), CurrentSchemaVersion+1)
	}))
	require.NoError(t, db.Close())

	_, err = NewChunkStore().Load(path)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestChunkStore_MigratesV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.db")

	s := NewChunkStore()
	s.Append(sampleChunks()...)
	require.NoError(t, s.Save(path, domain.IndexManifest{Model: "m", Fingerprint: "abc"}))

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if err := meta.Delete(keySchemaVersion); err != nil {
			return err
		}
		data, _ := json.Marshal(domain.IndexManifest{SchemaVersion: 1, Model: "m", Count: 3})
		return meta.Put(keyManifest, data)
	}))
	require.NoError(t, db.Close())

	manifest, err := NewChunkStore().Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, manifest.SchemaVersion)
	assert.Empty(t, manifest.Fingerprint)
}

func TestCheckManifest(t *testing.T) {
	stored := domain.IndexManifest{Corpus: "jobs", Model: "hash-384", Dimension: 384, Fingerprint: ComputeFingerprint("a", "b")}

	assert.NoError(t, CheckManifest(stored, domain.IndexManifest{Model: "hash-384", Dimension: 384}))
	assert.NoError(t, CheckManifest(stored, domain.IndexManifest{Model: "hash-384", Fingerprint: ComputeFingerprint("a", "b")}))

	err := CheckManifest(stored, domain.IndexManifest{Model: "text-embedding-ada-002", Dimension: 1536})
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)

	err = CheckManifest(stored, domain.IndexManifest{Model: "hash-384", Dimension: 256})
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)

	err = CheckManifest(stored, domain.IndexManifest{Model: "hash-384", Fingerprint: ComputeFingerprint("a", "c")})
	assert.ErrorIs(t, err, ErrStaleIndex)
}

func TestComputeFingerprint(t *testing.T) {
	assert.Equal(t, ComputeFingerprint("x", "y"), ComputeFingerprint("x", "y"))
	assert.NotEqual(t, ComputeFingerprint("xy"), ComputeFingerprint("x", "y"))
	assert.Len(t, ComputeFingerprint("x"), 16)
}

func TestChunkStore_SaveRemovesTmpWhenOpenFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.db")
	openBolt = func(p string, mode os.FileMode, opts *bbolt.Options) (*bbolt.DB, error) {
		require.NoError(t, os.WriteFile(p, []byte("partial"), mode))
		return nil, errors.New("open failed")
	}
	t.Cleanup(func() { openBolt = bbolt.Open })

	s := NewChunkStore()
	s.Append(sampleChunks()...)
	err := s.Save(path, domain.IndexManifest{Corpus: "cv", Model: "m", Dimension: 3})
	require.Error(t, err)

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
