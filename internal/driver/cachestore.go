package driver

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hakanago/hakana/internal/flowanalyzer"
)

// CacheStore persists its cache as rows of a single SQLite file: a `blobs`
// table holding the manifest and one "symbols:<file>" record per file, and
// a `buildinfo` table holding the build checksum, with the manifest and
// checksum written in one `Commit` transaction. Of spec §6's "Persisted
// cache layout", the codebase and aast_names parts are not stored.
//
// It stores the manifest (file hash/mtime fingerprints, for FileStatus
// diffing) and, per file, the hashes and issues recorded the last time that
// file was analyzed (spec §4.8 "reuse the existing issues for safe files").
// It deliberately does NOT persist codebase.ClasslikeInfo/FunctionlikeInfo
// themselves: those carry unexported fields (internal/types.Union's atomic
// map) and interface-typed atomics that a generic encoder cannot round-trip
// faithfully, so a cache hit still rescans and repopulates the symbol graph
// in-process — only the flow-analysis *work* (and its issues) is skipped
// for files the invalidation pass leaves out.
type CacheStore struct {
	db *sql.DB
}

// OpenCacheStore opens (creating if absent) the cache database under dir.
func OpenCacheStore(dir string) (*CacheStore, error) {
	path := filepath.Join(dir, "hakana.cache.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache store %q: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (key TEXT PRIMARY KEY, value BLOB NOT NULL);
		CREATE TABLE IF NOT EXISTS buildinfo (checksum TEXT NOT NULL);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache store schema: %w", err)
	}
	return &CacheStore{db: db}, nil
}

func (c *CacheStore) Close() error { return c.db.Close() }

// BuildChecksum returns the checksum stamped on the cache the last time it
// was committed, or "" if the cache is empty.
func (c *CacheStore) BuildChecksum() (string, error) {
	var checksum string
	err := c.db.QueryRow(`SELECT checksum FROM buildinfo LIMIT 1`).Scan(&checksum)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return checksum, err
}

// Evict drops every row — called when BuildChecksum doesn't match the
// current run's (spec §4.8 "if the checksum differs, the cache is
// evicted").
func (c *CacheStore) Evict() error {
	_, err := c.db.Exec(`DELETE FROM blobs; DELETE FROM buildinfo;`)
	return err
}

// FileRecord is one file's cached scan result: the hash it was last scanned
// at (so a later diff can tell "unchanged" from "modified"), its top-level
// symbols' signature/body hashes (for the codebase-diff safety
// classification), and the issues the flow analyzer emitted for it.
type FileRecord struct {
	Hash           uint64
	SymbolHashes   map[string][2]uint64 // name -> {signature_hash, body_hash}
	Issues         []flowanalyzer.Issue
}

// Commit atomically stamps the new build checksum and replaces the
// manifest blob — the transactional boundary means a crash mid-write never
// leaves a checksum pointing at a stale manifest.
func (c *CacheStore) Commit(checksum string, manifest map[string]FileFingerprint) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM buildinfo`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO buildinfo (checksum) VALUES (?)`, checksum); err != nil {
		return err
	}
	data, err := encodeGob(manifest)
	if err != nil {
		return err
	}
	if err := putBlobTx(tx, "manifest", data); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadManifest reads back the fingerprint map Pipeline.Scan diffs the
// current filesystem walk against.
func (c *CacheStore) LoadManifest() (map[string]FileFingerprint, error) {
	data, ok, err := c.getBlob("manifest")
	if err != nil || !ok {
		return nil, err
	}
	var m map[string]FileFingerprint
	if err := decodeGob(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *CacheStore) PutFileRecord(file string, rec FileRecord) error {
	data, err := encodeGob(rec)
	if err != nil {
		return err
	}
	return c.putBlob("symbols:"+file, data)
}

func (c *CacheStore) GetFileRecord(file string) (FileRecord, bool, error) {
	data, ok, err := c.getBlob("symbols:" + file)
	if err != nil || !ok {
		return FileRecord{}, false, err
	}
	var rec FileRecord
	if err := decodeGob(data, &rec); err != nil {
		return FileRecord{}, false, err
	}
	return rec, true, nil
}

func (c *CacheStore) DeleteFileRecord(file string) error {
	_, err := c.db.Exec(`DELETE FROM blobs WHERE key = ?`, "symbols:"+file)
	return err
}

func (c *CacheStore) putBlob(key string, value []byte) error {
	_, err := c.db.Exec(`INSERT INTO blobs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func putBlobTx(tx *sql.Tx, key string, value []byte) error {
	_, err := tx.Exec(`INSERT INTO blobs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (c *CacheStore) getBlob(key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
