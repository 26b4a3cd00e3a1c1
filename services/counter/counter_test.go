package counter

import (
	"context"
	"io"
	"log"
	"testing"
)

// Malformed events must be dropped (nil return acks the message) rather than
// redelivered forever.
func TestHandleScanDropsBadPayloads(t *testing.T) {
	c := New(nil, nil, log.New(io.Discard, "", 0))

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("{{")},
		{"missing cycle", []byte(`{"asset_id":"TS001"}`)},
		{"nil cycle", []byte(`{"cycle_id":"00000000-0000-0000-0000-000000000000"}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.handleScan(context.Background(), tc.data); err != nil {
				t.Fatalf("handleScan should drop bad payloads, got %v", err)
			}
		})
	}
}

func TestHandleImportDropsBadPayloads(t *testing.T) {
	c := New(nil, nil, log.New(io.Discard, "", 0))

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("nope")},
		{"bad cycle id", []byte(`{"cycle_id":"not-a-uuid"}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.handleImport(context.Background(), tc.data); err != nil {
				t.Fatalf("handleImport should drop bad payloads, got %v", err)
			}
		})
	}
}
