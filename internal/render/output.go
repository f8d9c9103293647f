package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/watchface/internal/face"
)

// Output receives every rendered frame. The canvas already holds the frame's
// changes when Push is called.
type Output interface {
	Name() string
	Push(c *Canvas, f face.Frame) error
	Close() error
}

// PNGFile rewrites a PNG snapshot on disk after each non-empty frame
type PNGFile struct {
	path string
}

func NewPNGFile(path string) *PNGFile {
	return &PNGFile{path: path}
}

func (p *PNGFile) Name() string { return "png:" + p.path }

func (p *PNGFile) Push(c *Canvas, f face.Frame) error {
	if f.Empty() {
		return nil
	}

	data, err := c.PNG()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(p.path), "."+filepath.Base(p.path)+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p.path, err)
	}
	return nil
}

func (p *PNGFile) Close() error { return nil }

// OnlySeconds reports whether a frame moves nothing but the second hand
func OnlySeconds(f face.Frame) bool {
	if f.Empty() {
		return false
	}
	for _, cmd := range f.Commands {
		if cmd.Kind != face.CommandHand || cmd.Hand != face.HandSecond {
			return false
		}
	}
	return true
}
