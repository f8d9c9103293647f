package remote

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/internal/render"
	"github.com/chrissnell/watchface/pkg/polar"
)

func TestStreamReplay(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream("buffer", &buf)

	frames := []face.Frame{
		{Seq: 1, Commands: []face.Command{
			{Kind: face.CommandHand, Hand: face.HandHour, Points: [2]polar.Point{{X: 150, Y: 120}, {X: 190, Y: 120}}},
			{Kind: face.CommandText, Label: face.LabelDate, Text: "Fri\n21"},
		}},
		{Seq: 2},
		{Seq: 3, Commands: []face.Command{{Kind: face.CommandPalette, Palette: face.PaletteNight}}},
	}
	var want face.Recorder
	for _, f := range frames {
		if err := s.Push(nil, f); err != nil {
			t.Fatalf("Push(%d): %v", f.Seq, err)
		}
		f.Apply(&want)
	}

	var got face.Recorder
	n, err := NewReceiver(&buf).Replay(&got)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if n != 2 {
		t.Errorf("replayed %d frames, expected 2 (empty frames are not sent)", n)
	}
	if !reflect.DeepEqual(got.Commands(), want.Commands()) {
		t.Errorf("replayed commands = %+v\nexpected %+v", got.Commands(), want.Commands())
	}
}

func TestStreamIntoCanvas(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream("buffer", &buf)
	s.Push(nil, face.Frame{Seq: 9, Commands: []face.Command{{Kind: face.CommandText, Label: face.LabelTime, Text: "07:45"}}})

	c := render.NewCanvas(0)
	if _, err := NewReceiver(&buf).Replay(c); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if c.Text(face.LabelTime) != "07:45" {
		t.Errorf("canvas time label = %q", c.Text(face.LabelTime))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("cable unplugged") }

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestStreamErrors(t *testing.T) {
	s := NewStream("serial", failingWriter{})
	err := s.Push(nil, face.Frame{Seq: 4, Commands: []face.Command{{Kind: face.CommandPalette}}})
	if err == nil {
		t.Fatal("expected write error")
	}

	if _, err := NewReceiver(bytes.NewReader([]byte{0xc1})).Next(); err == nil || err == io.EOF {
		t.Errorf("expected decode error for invalid byte, got %v", err)
	}
}

func TestStreamClose(t *testing.T) {
	w := &closeTracker{}
	if err := NewStream("tracker", w).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Error("underlying writer was not closed")
	}
}
