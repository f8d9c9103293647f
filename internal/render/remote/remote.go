// Package remote streams face frames as MessagePack to a companion display.
package remote

import (
	"fmt"
	"io"
	"sync"

	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/internal/render"
	"github.com/vmihailenco/msgpack/v5"
)

// Stream writes one MessagePack-encoded face.Frame per non-empty tick. The
// receiver replays frames on its own Sink.
type Stream struct {
	mu   sync.Mutex
	name string
	w    io.Writer
	enc  *msgpack.Encoder
}

// NewStream wraps w. If w is an io.Closer it is closed with the stream.
func NewStream(name string, w io.Writer) *Stream {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return &Stream{name: name, w: w, enc: enc}
}

func (s *Stream) Name() string { return "remote:" + s.name }

func (s *Stream) Push(_ *render.Canvas, f face.Frame) error {
	if f.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(&f); err != nil {
		return fmt.Errorf("failed to send frame %d to %s: %w", f.Seq, s.name, err)
	}
	return nil
}

func (s *Stream) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Receiver decodes frames written by a Stream
type Receiver struct {
	dec *msgpack.Decoder
}

func NewReceiver(r io.Reader) *Receiver {
	return &Receiver{dec: msgpack.NewDecoder(r)}
}

// Next blocks for the next frame. It returns io.EOF when the stream ends.
func (r *Receiver) Next() (face.Frame, error) {
	var f face.Frame
	if err := r.dec.Decode(&f); err != nil {
		return face.Frame{}, err
	}
	return f, nil
}

// Replay applies every remaining frame to s and returns the number applied.
func (r *Receiver) Replay(s face.Sink) (int, error) {
	n := 0
	for {
		f, err := r.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("failed to decode frame: %w", err)
		}
		f.Apply(s)
		n++
	}
}
