package achievements

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

// SaveProgress writes the runtime progress to w as a little-endian uint32
// length followed by that many bytes. A capture failure, or an inactive
// coordinator, writes a zero-length blob.
func (c *Coordinator) SaveProgress(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data []byte
	if c.rt != nil {
		var err error
		data, err = captureProgress(c.rt)
		if err != nil {
			c.logger.Warn("failed to serialize progress", xslog.Error(err))
			data = nil
		}
	}
	return writeBlob(w, data)
}

// LoadProgress restores progress written by SaveProgress. Only errors reading
// r are returned: a zero-length blob resets the runtime and a blob the runtime
// rejects is logged and also resets it. An inactive coordinator skips the blob.
func (c *Coordinator) LoadProgress(r io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rt == nil {
		n, err := readBlobLen(r)
		if err != nil {
			return err
		}
		if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
			return fmt.Errorf("skipping progress: %w", unexpected(err))
		}
		return nil
	}

	// Progress for achievements that are still downloading would be lost.
	if c.requests.Pending(RequestLoadGame) {
		c.logger.Info("waiting for game data before restoring progress")
		c.nc.WaitForAllRequests()
	}

	data, err := readBlob(r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		c.logger.Debug("state has no progress data, resetting runtime")
		c.rt.Reset()
		return nil
	}
	if err := c.rt.DeserializeProgress(data); err != nil {
		c.logger.Warn("failed to deserialize progress, resetting runtime", xslog.Error(err), xslog.Size(len(data)))
		c.rt.Reset()
	}
	return nil
}

// captureProgress snapshots progress in one pass when the runtime supports it.
// Otherwise it sizes then fills; a fill that disagrees with the size fails.
func captureProgress(rt backend.Runtime) ([]byte, error) {
	if pc, ok := rt.(backend.ProgressCapturer); ok {
		return pc.CaptureProgress()
	}
	size := rt.ProgressSize()
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if err := rt.SerializeProgress(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeBlob(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return fmt.Errorf("writing progress length: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}

func readBlobLen(r io.Reader) (uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("reading progress length: %w", unexpected(err))
	}
	return n, nil
}

func readBlob(r io.Reader) ([]byte, error) {
	n, err := readBlobLen(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	// The length comes from the stream, so grow with the data rather than
	// allocating n up front.
	data, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("reading progress: %w", err)
	}
	if len(data) != int(n) {
		return nil, fmt.Errorf("reading progress: %w", io.ErrUnexpectedEOF)
	}
	return data, nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
