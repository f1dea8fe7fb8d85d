package achievements

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/cheevo/internal/backend"
)

func blob(data []byte) *bytes.Buffer {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return &buf
}

const resetProgress = `{"game_id":42}`

func (h *harness) capture() string {
	h.t.Helper()
	data, err := h.rt().CaptureProgress()
	if err != nil {
		h.t.Fatalf("CaptureProgress() error = %v", err)
	}
	return string(data)
}

func primedHarness(t *testing.T) *harness {
	t.Helper()
	h := newLoaded(t)
	h.rt().Prime(3, true)
	h.rt().UpdateProgress(4, "2/5", 0.4)
	h.settle()
	if got := h.capture(); got == resetProgress {
		t.Fatalf("capture = %s, want primed state", got)
	}
	return h
}

func TestProgress_RoundTrip(t *testing.T) {
	t.Parallel()

	h := primedHarness(t)
	want := h.capture()

	var buf bytes.Buffer
	if err := h.c.SaveProgress(&buf); err != nil {
		t.Fatalf("SaveProgress() error = %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()); got != uint32(len(want)) {
		t.Errorf("length prefix = %d, want %d", got, len(want))
	}

	h.c.ResetRuntime()
	h.settle()
	if got := h.capture(); got != resetProgress {
		t.Fatalf("capture after reset = %s", got)
	}

	if err := h.c.LoadProgress(&buf); err != nil {
		t.Fatalf("LoadProgress() error = %v", err)
	}
	h.settle()

	if diff := cmp.Diff(want, h.capture()); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	if s := h.c.Snapshot(); len(s.Challenges) != 1 || !s.Challenges[0].Active {
		t.Errorf("challenges = %+v, want restored indicator", s.Challenges)
	}
}

func TestProgress_LoadResets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "zero length", data: nil},
		{name: "malformed", data: []byte("not json")},
		{name: "other game", data: []byte(`{"game_id":7}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := primedHarness(t)

			if err := h.c.LoadProgress(blob(tt.data)); err != nil {
				t.Fatalf("LoadProgress() error = %v", err)
			}

			if got := h.capture(); got != resetProgress {
				t.Errorf("capture = %s, want reset state", got)
			}
		})
	}
}

func TestProgress_LoadTruncated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty stream", data: nil},
		{name: "short length", data: []byte{3, 0}},
		{name: "short body", data: append([]byte{10, 0, 0, 0}, "abc"...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			active := newLoaded(t)
			if err := active.c.LoadProgress(bytes.NewReader(tt.data)); !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("active LoadProgress() error = %v, want unexpected EOF", err)
			}

			idle := newHarness(t)
			if err := idle.c.LoadProgress(bytes.NewReader(tt.data)); !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("inactive LoadProgress() error = %v, want unexpected EOF", err)
			}
		})
	}
}

func TestProgress_InactiveSkipsBlob(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	stream := blob([]byte("hello"))
	stream.WriteString("tail")

	if err := h.c.LoadProgress(stream); err != nil {
		t.Fatalf("LoadProgress() error = %v", err)
	}
	if got := stream.String(); got != "tail" {
		t.Errorf("remaining = %q, want tail", got)
	}
}

func TestProgress_LoadWaitsForGame(t *testing.T) {
	t.Parallel()

	h := newHarness(t, withStoredLogin())
	h.start()
	h.settle()
	h.net().Hold()
	h.c.IdentifyGame("game.bin", testHashes)

	if err := h.c.LoadProgress(blob(nil)); err != nil {
		t.Fatalf("LoadProgress() error = %v", err)
	}

	if got := h.c.Snapshot().GameID; got != 42 {
		t.Errorf("GameID = %d, want the load to finish first", got)
	}
}

type sizedRuntime struct {
	backend.Runtime
	size int
	data []byte
}

func (r sizedRuntime) ProgressSize() int { return r.size }

func (r sizedRuntime) SerializeProgress(buf []byte) error {
	if len(buf) != len(r.data) {
		return errors.New("progress size changed")
	}
	copy(buf, r.data)
	return nil
}

func TestCaptureProgress_SizeThenFill(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rt      sizedRuntime
		want    []byte
		wantErr bool
	}{
		{name: "matching", rt: sizedRuntime{size: 3, data: []byte("abc")}, want: []byte("abc")},
		{name: "nothing to save", rt: sizedRuntime{}, want: nil},
		{name: "size changed", rt: sizedRuntime{size: 2, data: []byte("abc")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := captureProgress(tt.rt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("captureProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("captureProgress() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
