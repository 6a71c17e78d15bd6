package poller

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher — построение дешёвого отпечатка результата опроса (xxhash64).
type Hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewHasher создаёт пустой Hasher.
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// String добавляет строку с разделителем.
func (h *Hasher) String(s string) *Hasher {
	_, _ = h.d.WriteString(s)
	_, _ = h.d.Write([]byte{0})
	return h
}

// Int добавляет целое число.
func (h *Hasher) Int(n int) *Hasher {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(n))
	_, _ = h.d.Write(h.buf[:])
	return h
}

// Bool добавляет логическое значение.
func (h *Hasher) Bool(b bool) *Hasher {
	if b {
		_, _ = h.d.Write([]byte{1})
	} else {
		_, _ = h.d.Write([]byte{0})
	}
	return h
}

// Sum64 возвращает отпечаток.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}
