package snapshot

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filippo.io/age"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	t.Setenv(envAgeSecretKey, identity.String())
	t.Setenv(envAgePublicKey, "")

	signer, err := NewSignerFromEnv()
	if err != nil {
		t.Fatalf("NewSignerFromEnv: %v", err)
	}
	return signer
}

func TestSignerRoundTrip(t *testing.T) {
	signer := newTestSigner(t)

	payload := []byte("cycle report payload")
	sig, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := signer.Verify(payload, sig, signer.PublicKeyBase64()); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := signer.Verify([]byte("tampered payload"), sig, ""); err == nil {
		t.Fatal("tampered payload must not verify")
	}
	if err := signer.Verify(payload, "not-base64!", ""); err == nil {
		t.Fatal("malformed signature must not verify")
	}
}

func TestSignerRejectsMismatchedPublicKey(t *testing.T) {
	signer := newTestSigner(t)

	other, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	t.Setenv(envAgeSecretKey, other.String())
	otherSigner, err := NewSignerFromEnv()
	if err != nil {
		t.Fatalf("NewSignerFromEnv: %v", err)
	}

	payload := []byte("payload")
	sig, err := otherSigner.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := signer.Verify(payload, sig, otherSigner.PublicKeyBase64()); err == nil {
		t.Fatal("signature from a different key must not verify")
	}
}

func TestBuildVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t)

	reportsDir := t.TempDir()
	writeFile(t, filepath.Join(reportsDir, "inventory_all_20240601.xlsx"), []byte("workbook-bytes"))
	writeFile(t, filepath.Join(reportsDir, "q2", "inventory_checked.json"), []byte(`{"rows":[]}`))

	output := filepath.Join(t.TempDir(), "snapshot.tar.zst")

	built, err := Build(context.Background(), BuildConfig{
		ReportsDir: reportsDir,
		Output:     output,
		Signer:     signer,
		Now:        func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdout:     io.Discard,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(built.Reports) != 2 {
		t.Fatalf("manifest has %d reports, want 2", len(built.Reports))
	}
	if built.Reports[0].Path != "inventory_all_20240601.xlsx" {
		t.Fatalf("reports not sorted: %+v", built.Reports)
	}
	if built.Reports[0].Kind != "workbook" {
		t.Fatalf("kind = %q, want workbook", built.Reports[0].Kind)
	}
	if built.Signature == "" {
		t.Fatal("manifest not signed")
	}

	verified, err := Verify(context.Background(), VerifyConfig{
		SnapshotPath: output,
		Signer:       signer,
		Stdout:       io.Discard,
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !verified.CreatedAt.Equal(built.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", verified.CreatedAt, built.CreatedAt)
	}
}

func TestBuildRejectsEmptyDir(t *testing.T) {
	signer := newTestSigner(t)
	_, err := Build(context.Background(), BuildConfig{
		ReportsDir: t.TempDir(),
		Output:     filepath.Join(t.TempDir(), "snapshot.tar.zst"),
		Signer:     signer,
		Stdout:     io.Discard,
	})
	if err == nil {
		t.Fatal("expected error for empty reports dir")
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	signer := newTestSigner(t)

	reportsDir := t.TempDir()
	writeFile(t, filepath.Join(reportsDir, "report.csv"), []byte("a,b,c"))

	output := filepath.Join(t.TempDir(), "snapshot.tar.zst")
	if _, err := Build(context.Background(), BuildConfig{
		ReportsDir: reportsDir,
		Output:     output,
		Signer:     signer,
		Stdout:     io.Discard,
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	data = bytes.ReplaceAll(data, []byte{0x28, 0xb5, 0x2f, 0xfd}, []byte{0x00, 0x00, 0x00, 0x00})
	corrupted := filepath.Join(t.TempDir(), "corrupted.tar.zst")
	writeFile(t, corrupted, data)

	if _, err := Verify(context.Background(), VerifyConfig{
		SnapshotPath: corrupted,
		Signer:       signer,
		Stdout:       io.Discard,
	}); err == nil {
		t.Fatal("corrupted snapshot must not verify")
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
