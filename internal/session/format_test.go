package session

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"zero", 0, "0.00.00"},
		{"seconds only", 5, "0.00.05"},
		{"minute boundary", 60, "0.01.00"},
		{"minute and seconds", 65, "0.01.05"},
		{"hour minute second", 3661, "1.01.01"},
		{"no leading zero on hours", 36000, "10.00.00"},
		{"negative clamps to zero", -3, "0.00.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
