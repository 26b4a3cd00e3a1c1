package snapshot

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the signed metadata embedded in every snapshot archive. It
// pins the exact bytes of each report so an archive can be verified long
// after the database has moved on.
type Manifest struct {
	Version          string           `yaml:"version"`
	CreatedAt        time.Time        `yaml:"created_at"`
	Signer           string           `yaml:"signer,omitempty"`
	SigningPublicKey string           `yaml:"signing_public_key,omitempty"`
	Signature        string           `yaml:"signature,omitempty"`
	Reports          []ManifestReport `yaml:"reports"`
}

// SigningBytes marshals the manifest without its signature for signing and
// verification.
func (m Manifest) SigningBytes() ([]byte, error) {
	clone := m
	clone.Signature = ""
	return yaml.Marshal(clone)
}

// ManifestReport describes one report file within the snapshot.
type ManifestReport struct {
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}
