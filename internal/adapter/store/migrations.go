package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"careerpilot/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var keySchemaVersion = []byte("schema_version")

// ErrStaleIndex indicates a persisted index was built from different
// inputs than the ones it is being loaded for. Callers rebuild.
var ErrStaleIndex = errors.New("index inputs changed")

func putSchemaVersion(meta *bbolt.Bucket, version int) error {
	data, err := json.Marshal(version)
	if err != nil {
		return err
	}
	return meta.Put(keySchemaVersion, data)
}

func readManifest(meta *bbolt.Bucket) (domain.IndexManifest, error) {
	var manifest domain.IndexManifest

	version := 1
	if data := meta.Get(keySchemaVersion); data != nil {
		if err := json.Unmarshal(data, &version); err != nil {
			return manifest, fmt.Errorf("%w: schema version: %v", domain.ErrCorruptIndex, err)
		}
	}
	if version > CurrentSchemaVersion {
		return manifest, fmt.Errorf("%w: created by newer version (v%d > v%d)", domain.ErrCorruptIndex, version, CurrentSchemaVersion)
	}

	data := meta.Get(keyManifest)
	if data == nil {
		return manifest, fmt.Errorf("%w: missing manifest", domain.ErrCorruptIndex)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("%w: manifest: %v", domain.ErrCorruptIndex, err)
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		migrateManifest(&manifest, v, v+1)
	}
	return manifest, nil
}

// migrateManifest upgrades a manifest read from an older file in memory.
func migrateManifest(m *domain.IndexManifest, from, to int) {
	switch {
	case from == 1 && to == 2:
		// v1 files carried no fingerprint; an empty one matches anything
		m.Fingerprint = ""
	}
	m.SchemaVersion = to
}

// ComputeFingerprint computes a short hash over the inputs an index was
// built from. Changes to it indicate the index should be rebuilt.
func ComputeFingerprint(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:8])
}

// CheckManifest verifies that a persisted index can serve queries embedded
// by want.Model. A different model or dimension is ErrEmbeddingMismatch,
// a different fingerprint is ErrStaleIndex.
func CheckManifest(stored, want domain.IndexManifest) error {
	if stored.Model != want.Model {
		return fmt.Errorf("%w: index built with %q, provider is %q", domain.ErrEmbeddingMismatch, stored.Model, want.Model)
	}
	if want.Dimension != 0 && stored.Dimension != want.Dimension {
		return fmt.Errorf("%w: index has %d dimensions, provider has %d", domain.ErrEmbeddingMismatch, stored.Dimension, want.Dimension)
	}
	if want.Fingerprint != "" && stored.Fingerprint != "" && stored.Fingerprint != want.Fingerprint {
		return fmt.Errorf("%w: %s", ErrStaleIndex, stored.Corpus)
	}
	return nil
}
