package redis

import "testing"

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "single", parts: []string{"settings"}, want: "cheevo:settings"},
		{name: "nested", parts: []string{"settings", "Cheevos"}, want: "cheevo:settings:Cheevos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Key(tt.parts...); got != tt.want {
				t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}
