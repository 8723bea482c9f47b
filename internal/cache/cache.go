// Package cache stores generated artifacts on disk keyed by a digest of
// everything that influenced them, so unchanged descriptions skip
// regeneration entirely.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when the Payload format changes.
const schemaVersion uint16 = 1

// Digest is a SHA-256 content key.
type Digest [sha256.Size]byte

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// Key digests the inputs of one class's generation: the description
// document, the finished superclass key (chaining invalidation down the
// hierarchy) and the generation switches.
func Key(description []byte, superKey Digest, accel bool) Digest {
	h := sha256.New()
	var ver [2]byte
	binary.LittleEndian.PutUint16(ver[:], schemaVersion)
	h.Write(ver[:])
	h.Write(superKey[:])
	if accel {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write(description)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Payload is the cached artifact set of one class.
type Payload struct {
	Schema uint16
	Class  string
	Names  []string
	Blobs  [][]byte
}

// NewPayload assembles a payload at the current schema version.
func NewPayload(class string, names []string, blobs [][]byte) *Payload {
	return &Payload{Schema: schemaVersion, Class: class, Names: names, Blobs: blobs}
}

// DiskCache stores payloads under the user cache directory.
// Safe for concurrent use; a nil cache is a valid always-miss cache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes the cache at the standard per-user location.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenAt initializes the cache rooted at an explicit directory.
func OpenAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "gen", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically installs one payload.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads one payload. A missing key or a payload written by a different
// schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
