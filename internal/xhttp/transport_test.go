package xhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/garrettladley/cheevo/internal/version"
	"github.com/garrettladley/cheevo/internal/xslog"
)

func TestTransportSetsHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get(UserAgent)
		gotVersion = r.Header.Get(version.Header)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPClient(WithLogger(xslog.Discard()))
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if gotUA != version.UserAgent() {
		t.Errorf("User-Agent = %q, want %q", gotUA, version.UserAgent())
	}
	if gotVersion != version.Get() {
		t.Errorf("%s = %q, want %q", version.Header, gotVersion, version.Get())
	}
}

func TestIsJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "plain", contentType: "application/json", want: true},
		{name: "with charset", contentType: "application/json; charset=utf-8", want: true},
		{name: "html", contentType: "text/html", want: false},
		{name: "empty", contentType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsJSON(tt.contentType); got != tt.want {
				t.Errorf("IsJSON(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
