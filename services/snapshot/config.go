package snapshot

import (
	"io"
	"time"

	gos3 "tallyd/pkg/s3"
)

// BuildConfig configures snapshot creation.
type BuildConfig struct {
	ReportsDir string
	Output     string
	Signer     *Signer
	Now        func() time.Time
	Stdout     io.Writer
}

// VerifyConfig configures snapshot verification.
type VerifyConfig struct {
	SnapshotPath string
	Signer       *Signer
	Stdout       io.Writer
}

// PushConfig configures uploading a verified snapshot to object storage.
type PushConfig struct {
	SnapshotPath string
	S3           *gos3.Client
	Bucket       string
	Key          string
	Signer       *Signer
	Stdout       io.Writer
}
