package manifest

import (
	"crypto"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

// DefaultChecksumFunction is used to calculate artifact hashes.
const DefaultChecksumFunction crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// Entry describes one published artifact.
type Entry struct {
	// Triple is the target triple encoded in the file name.
	Triple string `yaml:"triple"`
	// File is the published file name (no directory).
	File string `yaml:"file"`
	// Checksum is the base64-encoded SHA-512 of the file.
	Checksum string `yaml:"checksum"`
	// Size is the file size in bytes.
	Size int64 `yaml:"size"`
	// PackagerVersion is the packager build that produced the entry.
	PackagerVersion string `yaml:"packager_version"`
	// PublishedAt is when the artifact was moved into place.
	PublishedAt time.Time `yaml:"published_at"`
}

// Manifest lists the published artifacts of one sidecar.
type Manifest struct {
	// BaseName is the sidecar's fixed working name.
	BaseName string `yaml:"base_name"`
	// Artifacts maps a target triple to its entry.
	Artifacts map[string]*Entry `yaml:"artifacts"`
}

// New returns an empty manifest for baseName.
func New(baseName string) *Manifest {
	return &Manifest{
		BaseName:  baseName,
		Artifacts: make(map[string]*Entry),
	}
}

// Put records entry, replacing any previous entry for the same triple.
func (m *Manifest) Put(entry *Entry) {
	if m.Artifacts == nil {
		m.Artifacts = make(map[string]*Entry)
	}

	m.Artifacts[entry.Triple] = entry
}

// FileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func FileChecksum(path string) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := DefaultChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
