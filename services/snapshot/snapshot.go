// Package snapshot produces signed, compressed archives of exported
// reconciliation reports. An archive is self-describing: a manifest pins the
// hash of every report and carries an Ed25519 signature, so a snapshot pulled
// from cold storage years later can still be authenticated.
package snapshot

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

const (
	manifestFileName = "manifest.yaml"
	reportsTarPrefix = "reports"
)

// Build hashes every report under ReportsDir, signs the manifest, and writes
// a tar.zst archive to Output.
func Build(ctx context.Context, cfg BuildConfig) (*Manifest, error) {
	if cfg.ReportsDir == "" {
		return nil, errors.New("reports directory is required")
	}
	if cfg.Output == "" {
		return nil, errors.New("output path is required")
	}
	if cfg.Signer == nil {
		return nil, errors.New("signer is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	info, err := os.Stat(cfg.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("stat reports dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reports dir %q is not a directory", cfg.ReportsDir)
	}

	reports, err := collectReports(ctx, cfg.ReportsDir)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, errors.New("no reports found to snapshot")
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Path < reports[j].Path
	})

	manifest := &Manifest{
		Version:          "1",
		CreatedAt:        cfg.Now().UTC().Truncate(time.Second),
		Signer:           cfg.Signer.Recipient(),
		SigningPublicKey: cfg.Signer.PublicKeyBase64(),
		Reports:          reports,
	}

	payload, err := manifest.SigningBytes()
	if err != nil {
		return nil, fmt.Errorf("marshal manifest for signing: %w", err)
	}
	sig, err := cfg.Signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("sign manifest: %w", err)
	}
	manifest.Signature = sig

	manifestBytes, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	if err := writeArchive(cfg.Output, manifestBytes, cfg.ReportsDir, reports); err != nil {
		return nil, err
	}

	fmt.Fprintf(cfg.Stdout, "wrote snapshot %s (%d reports)\n", cfg.Output, len(reports))
	return manifest, nil
}

func collectReports(ctx context.Context, root string) ([]ManifestReport, error) {
	var reports []ManifestReport
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %q: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		size, sha, err := hashFile(path)
		if err != nil {
			return err
		}

		reports = append(reports, ManifestReport{
			Path:   rel,
			Kind:   inferKind(rel),
			Size:   size,
			SHA256: sha,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func hashFile(path string) (int64, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return 0, "", fmt.Errorf("hash %q: %w", path, err)
	}
	return size, hex.EncodeToString(hash.Sum(nil)), nil
}

func inferKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "workbook"
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	default:
		return "file"
	}
}

func writeArchive(output string, manifest []byte, reportsDir string, reports []ManifestReport) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	encoder, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	defer encoder.Close()

	tw := tar.NewWriter(encoder)
	defer tw.Close()

	header := &tar.Header{
		Name:     manifestFileName,
		Mode:     0o644,
		Size:     int64(len(manifest)),
		ModTime:  time.Now().UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	if _, err := tw.Write(manifest); err != nil {
		return fmt.Errorf("write manifest body: %w", err)
	}

	for _, report := range reports {
		fullPath := filepath.Join(reportsDir, filepath.FromSlash(report.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			return fmt.Errorf("stat %q: %w", report.Path, err)
		}
		src, err := os.Open(fullPath)
		if err != nil {
			return fmt.Errorf("open %q: %w", report.Path, err)
		}

		header := &tar.Header{
			Name:     filepath.ToSlash(filepath.Join(reportsTarPrefix, report.Path)),
			Mode:     int64(info.Mode().Perm()),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(header); err != nil {
			src.Close()
			return fmt.Errorf("write header for %q: %w", report.Path, err)
		}
		if _, err := io.Copy(tw, src); err != nil {
			src.Close()
			return fmt.Errorf("copy %q: %w", report.Path, err)
		}
		src.Close()
	}

	return nil
}

// Verify extracts the archive to a temp dir, checks the manifest signature,
// and re-hashes every report against the manifest.
func Verify(ctx context.Context, cfg VerifyConfig) (*Manifest, error) {
	if cfg.SnapshotPath == "" {
		return nil, errors.New("snapshot file is required")
	}
	if cfg.Signer == nil {
		return nil, errors.New("signer is required")
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	archive, err := os.Open(cfg.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer archive.Close()

	decoder, err := zstd.NewReader(archive)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer decoder.Close()

	tempDir, err := os.MkdirTemp("", "tallyd-snapshot-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	var manifestBytes []byte
	files := map[string]string{}

	tr := tar.NewReader(decoder)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Clean(header.Name)
		if name == manifestFileName {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read manifest: %w", err)
			}
			manifestBytes = data
			continue
		}

		target := filepath.Join(tempDir, name)
		if !strings.HasPrefix(target, tempDir) {
			return nil, fmt.Errorf("invalid entry path %q", name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir for %q: %w", name, err)
		}
		dst, err := os.Create(target)
		if err != nil {
			return nil, fmt.Errorf("create temp file for %q: %w", name, err)
		}
		if _, err := io.Copy(dst, tr); err != nil {
			dst.Close()
			return nil, fmt.Errorf("write temp file for %q: %w", name, err)
		}
		dst.Close()
		files[name] = target
	}

	if len(manifestBytes) == 0 {
		return nil, errors.New("snapshot missing manifest.yaml")
	}

	var manifest Manifest
	if err := yaml.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if manifest.Version != "1" {
		return nil, fmt.Errorf("unsupported manifest version %q", manifest.Version)
	}
	if manifest.Signature == "" {
		return nil, errors.New("manifest missing signature")
	}

	payload, err := manifest.SigningBytes()
	if err != nil {
		return nil, fmt.Errorf("marshal manifest for verification: %w", err)
	}
	if err := cfg.Signer.Verify(payload, manifest.Signature, manifest.SigningPublicKey); err != nil {
		return nil, fmt.Errorf("verify manifest signature: %w", err)
	}

	for _, report := range manifest.Reports {
		tarPath := filepath.ToSlash(filepath.Join(reportsTarPrefix, filepath.Clean(report.Path)))
		tempPath, ok := files[tarPath]
		if !ok {
			return nil, fmt.Errorf("report %q missing from archive", report.Path)
		}
		size, sha, err := hashFile(tempPath)
		if err != nil {
			return nil, err
		}
		if size != report.Size {
			return nil, fmt.Errorf("size mismatch for %q: expected %d got %d", report.Path, report.Size, size)
		}
		if !strings.EqualFold(sha, report.SHA256) {
			return nil, fmt.Errorf("sha256 mismatch for %q", report.Path)
		}
	}

	fmt.Fprintf(cfg.Stdout, "verified snapshot signed at %s (%d reports)\n",
		manifest.CreatedAt.Format(time.RFC3339), len(manifest.Reports))
	return &manifest, nil
}

// Push verifies a snapshot and uploads the archive bytes to object storage
// with their sha256 attached as checksum metadata.
func Push(ctx context.Context, cfg PushConfig) error {
	if cfg.S3 == nil {
		return errors.New("s3 client is required")
	}
	if cfg.Bucket == "" {
		return errors.New("bucket is required")
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	if _, err := Verify(ctx, VerifyConfig{SnapshotPath: cfg.SnapshotPath, Signer: cfg.Signer, Stdout: io.Discard}); err != nil {
		return err
	}

	size, sha, err := hashFile(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	key := cfg.Key
	if key == "" {
		key = "snapshots/" + filepath.Base(cfg.SnapshotPath)
	}

	file, err := os.Open(cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	if err := cfg.S3.PutObject(ctx, cfg.Bucket, key, file, size, sha); err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	fmt.Fprintf(cfg.Stdout, "uploaded s3://%s/%s (%d bytes)\n", cfg.Bucket, key, size)
	return nil
}
