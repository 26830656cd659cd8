package entities

import "testing"

func TestRecordingStatusTransitions(t *testing.T) {
	legal := []struct {
		from, to RecordingStatus
	}{
		{RecordingStatusUploading, RecordingStatusUploaded},
		{RecordingStatusUploaded, RecordingStatusTranscribed},
		{RecordingStatusTranscribed, RecordingStatusReported},
	}
	for _, tc := range legal {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct {
		from, to RecordingStatus
	}{
		{RecordingStatusUploading, RecordingStatusTranscribed},
		{RecordingStatusUploading, RecordingStatusReported},
		{RecordingStatusUploaded, RecordingStatusUploading},
		{RecordingStatusUploaded, RecordingStatusReported},
		{RecordingStatusTranscribed, RecordingStatusUploaded},
		{RecordingStatusReported, RecordingStatusUploading},
		{RecordingStatusReported, RecordingStatusTranscribed},
	}
	for _, tc := range illegal {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestNewUnitCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewUnitCode()
		if len(code) != unitCodeLength {
			t.Fatalf("unexpected code length %d", len(code))
		}
		for _, c := range code {
			switch {
			case c >= 'A' && c <= 'Z':
			case c >= '2' && c <= '9':
			default:
				t.Fatalf("unexpected character %q in code %s", c, code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Fatalf("too many duplicate codes: %d unique of 100", len(seen))
	}
}
