// Package digest fingerprints emulator output so that runs can be compared
// without storing whole frames.
package digest

// Digest implementations produce a running hash of everything they have
// been fed since the last reset.
type Digest interface {
	Hash() string
	ResetDigest()
}
