package prayer

import (
	"strings"
	"testing"
	"time"
)

func TestFormatOutput(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 47, 0, 0, time.UTC)
	p := Prayer{Name: "Asr", Time: time.Date(2026, 2, 28, 15, 2, 0, 0, time.UTC)}

	tests := []struct {
		mode string
		want string
	}{
		{FormatTimeRemaining, "2h 15m"},
		{FormatNextPrayerTime, "15:02"},
		{FormatNameAndTime, "Asr 15:02"},
		{FormatNameAndRemaining, "Asr 2h 15m"},
		{FormatShortNameAndTime, "A 15:02"},
		{FormatShortNameAndRemain, "A 2h 15m"},
		{FormatFull, "Asr 15:02 (2h 15m)"},
		{"unknown-mode", "Asr 15:02"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got := FormatOutput(p, now, tt.mode, "15:04")
			if got != tt.want {
				t.Errorf("FormatOutput(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_TwelveHour(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	p := Prayer{Name: "Asr", Time: time.Date(2026, 2, 28, 15, 2, 0, 0, time.UTC)}

	got := FormatOutput(p, now, FormatNextPrayerTime, "3:04 PM")
	if got != "3:02 PM" {
		t.Errorf("12h format = %q, want 3:02 PM", got)
	}
}

func TestFormatOutput_CustomTemplate(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 47, 0, 0, time.UTC)
	p := Prayer{Name: "Asr", Time: time.Date(2026, 2, 28, 15, 2, 0, 0, time.UTC)}

	got := FormatOutput(p, now, "{{.Name}} in {{.Remaining}}", "15:04")
	if got != "Asr in 2h 15m" {
		t.Errorf("template output = %q, want %q", got, "Asr in 2h 15m")
	}

	got = FormatOutput(p, now, "{{.ShortName}}@{{.Time}} ({{.Hours}}h{{.Minutes}}m)", "15:04")
	if got != "A@15:02 (2h15m)" {
		t.Errorf("template output = %q", got)
	}

	// A broken template reports the error inline rather than crashing a
	// status bar.
	got = FormatOutput(p, now, "{{.Nope}", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("broken template output = %q, want template-err prefix", got)
	}
}
