package version

import "testing"

func TestUserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		goos    string
		goarch  string
		want    string
	}{
		{
			name:    "release version",
			version: "v1.2.0",
			goos:    "linux",
			goarch:  "amd64",
			want:    "cheevo/v1.2.0 (linux; amd64)",
		},
		{
			name:    "devel version",
			version: "devel",
			goos:    "darwin",
			goarch:  "arm64",
			want:    "cheevo/devel (darwin; arm64)",
		},
		{
			name:    "empty version falls back to devel",
			version: "",
			goos:    "windows",
			goarch:  "amd64",
			want:    "cheevo/devel (windows; amd64)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := userAgent(tt.version, tt.goos, tt.goarch); got != tt.want {
				t.Errorf("userAgent(%q, %q, %q) = %q, want %q", tt.version, tt.goos, tt.goarch, got, tt.want)
			}
		})
	}
}

func TestGetIsStable(t *testing.T) {
	t.Parallel()

	if first, second := Get(), Get(); first != second {
		t.Errorf("Get() = %q then %q, want stable value", first, second)
	}
}
