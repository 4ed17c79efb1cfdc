package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Keyer generates cache keys.
type Keyer interface {
	// ManifestKey identifies the parsed manifest of one archive revision.
	ManifestKey(path string, size int64, modTime time.Time) string
}

// DefaultKeyer produces unprefixed keys of the form "manifest:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ManifestKey digests the archive path, size and modification time, so a
// rewritten archive never hits a stale entry.
func (DefaultKeyer) ManifestKey(path string, size int64, modTime time.Time) string {
	h := sha256.New()
	h.Write([]byte(path))
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(size))
	binary.BigEndian.PutUint64(buf[8:], uint64(modTime.UnixNano()))
	h.Write([]byte{0})
	h.Write(buf[:])
	return "manifest:" + hex.EncodeToString(h.Sum(nil))
}

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// installations can share one Redis or MongoDB backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "host-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (nil means the default keyer) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ManifestKey generates a prefixed manifest key.
func (k *ScopedKeyer) ManifestKey(path string, size int64, modTime time.Time) string {
	return k.prefix + k.inner.ManifestKey(path, size, modTime)
}
