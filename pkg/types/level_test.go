package types

import "testing"

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"high", LevelHigh},
		{"H", LevelHigh},
		{"**High**", LevelHigh},
		{"Low (2 hours)", LevelLow},
		{"l", LevelLow},
		{"Medium-High", LevelMedium},
		{"  moderate effort", LevelMedium},
		{"Med", LevelMedium},
		{"Extreme", LevelMedium},
		{"", LevelMedium},
		{"42", LevelMedium},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeLevel(tt.input); got != tt.want {
				t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelIsValid(t *testing.T) {
	tests := []struct {
		level Level
		want  bool
	}{
		{LevelLow, true},
		{LevelMedium, true},
		{LevelHigh, true},
		{"high", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.level.IsValid(); got != tt.want {
			t.Errorf("Level(%q).IsValid() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func FuzzNormalizeLevel(f *testing.F) {
	for _, seed := range []string{"High", "low-ish", "Extreme", "", "\x00m"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		if level := NormalizeLevel(input); !level.IsValid() {
			t.Errorf("NormalizeLevel(%q) = %q, not a valid level", input, level)
		}
	})
}
