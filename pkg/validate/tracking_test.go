package validate_test

import (
	"strings"
	"testing"

	"github.com/makbarsyahwana/logistic-gateway/pkg/validate"
)

func TestTrackingNumber(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"ok", "TRK-2024-001", false},
		{"ok lowercase", "trk-1", false},
		{"trimmed", "  TRK-1  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"inner space", "TRK 1", true},
		{"invalid char", "TRK_1", true},
		{"too long", strings.Repeat("A", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.TrackingNumber(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TrackingNumber(%q) err=%v, wantErr=%v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestReadTrackingList(t *testing.T) {
	input := strings.Join([]string{
		"# shipment batch 42",
		"TRK-1",
		"",
		"   TRK-2   ",
		"not a number!",
		"TRK-3",
	}, "\n")

	res, err := validate.ReadTrackingList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTrackingList: %v", err)
	}

	want := []string{"TRK-1", "TRK-2", "TRK-3"}
	if len(res.Numbers) != len(want) {
		t.Fatalf("got %v, want %v", res.Numbers, want)
	}
	for i := range want {
		if res.Numbers[i] != want[i] {
			t.Fatalf("got %v, want %v", res.Numbers, want)
		}
	}
	if res.SkippedCount != 1 {
		t.Fatalf("SkippedCount=%d, want 1", res.SkippedCount)
	}
}
