// Package secret provides a zeroing-on-close container for passphrases,
// PINs, and management keys.
//
// CRITICAL: values held here must never be placed in an event, an
// envelope, a projection, or a log record. Text deliberately has no
// MarshalJSON/String that returns its contents — every accidental
// encode or %v prints a redaction marker instead.
package secret

import "fmt"

// Text holds a secret string in a mutable byte buffer so it can be wiped.
// The zero value is an empty, already-closed Text.
type Text struct {
	buf    []byte
	closed bool
}

// New copies s into a fresh Text. Callers should overwrite or discard s
// themselves where practical; Go strings are immutable and this package
// cannot scrub the original.
func New(s string) *Text {
	buf := make([]byte, len(s))
	copy(buf, s)
	return &Text{buf: buf}
}

// Reveal returns the secret's current bytes. The caller must not retain
// or mutate the returned slice beyond the call — it aliases the
// container's internal buffer.
func (t *Text) Reveal() []byte {
	if t == nil || t.closed {
		return nil
	}
	return t.buf
}

// Len reports the secret's length without revealing its contents. A
// closed Text reports 0.
func (t *Text) Len() int {
	if t == nil || t.closed {
		return 0
	}
	return len(t.buf)
}

// Close overwrites the buffer with zero bytes and marks the container
// closed. Close is idempotent and safe to call from a defer.
func (t *Text) Close() {
	if t == nil || t.closed {
		return
	}
	for i := range t.buf {
		t.buf[i] = 0
	}
	t.closed = true
}

// String implements fmt.Stringer with a redaction marker so a Text
// accidentally passed to a logger or fmt.Sprintf never leaks its value.
func (t *Text) String() string {
	return "secret.Text{REDACTED}"
}

// MarshalJSON refuses to serialize a Text's contents; this guarantees a
// Text embedded in any struct fails loudly at the JSON boundary instead
// of silently leaking into an event, an envelope, or an exported
// manifest.
func (t *Text) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("secret.Text: refusing to marshal a secret value")
}
