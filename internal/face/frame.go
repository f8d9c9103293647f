package face

import "github.com/chrissnell/watchface/pkg/polar"

// Sink receives render commands. Implementations own the display surface.
type Sink interface {
	SetHandPoints(h Hand, pts [2]polar.Point)
	SetText(l Label, text string)
	SetPalette(p Palette)
}

// CommandKind tags the variant held by a Command
type CommandKind uint8

const (
	CommandHand CommandKind = iota
	CommandText
	CommandPalette
)

// Command is one render instruction.
type Command struct {
	Kind    CommandKind    `json:"kind" msgpack:"kind"`
	Hand    Hand           `json:"hand,omitempty" msgpack:"hand,omitempty"`
	Points  [2]polar.Point `json:"points,omitempty" msgpack:"points,omitempty"`
	Label   Label          `json:"label,omitempty" msgpack:"label,omitempty"`
	Text    string         `json:"text,omitempty" msgpack:"text,omitempty"`
	Palette Palette        `json:"palette,omitempty" msgpack:"palette,omitempty"`
}

// Frame is everything one tick changed. An empty frame means nothing needs redrawing.
type Frame struct {
	Seq      uint64    `json:"seq" msgpack:"seq"`
	Commands []Command `json:"commands" msgpack:"commands"`
}

// Empty reports whether the frame carries no commands
func (f Frame) Empty() bool {
	return len(f.Commands) == 0
}

// Apply replays the frame's commands on s in order.
func (f Frame) Apply(s Sink) {
	for _, cmd := range f.Commands {
		switch cmd.Kind {
		case CommandHand:
			s.SetHandPoints(cmd.Hand, cmd.Points)
		case CommandText:
			s.SetText(cmd.Label, cmd.Text)
		case CommandPalette:
			s.SetPalette(cmd.Palette)
		}
	}
}

// HiddenHand collapses a hand to a point; sinks skip zero-length hands.
var HiddenHand = [2]polar.Point{}

// Recorder is a Sink that collects commands into a Frame.
type Recorder struct {
	commands []Command
}

func (r *Recorder) SetHandPoints(h Hand, pts [2]polar.Point) {
	r.commands = append(r.commands, Command{Kind: CommandHand, Hand: h, Points: pts})
}

func (r *Recorder) SetText(l Label, text string) {
	r.commands = append(r.commands, Command{Kind: CommandText, Label: l, Text: text})
}

func (r *Recorder) SetPalette(p Palette) {
	r.commands = append(r.commands, Command{Kind: CommandPalette, Palette: p})
}

// Commands returns what was recorded so far
func (r *Recorder) Commands() []Command {
	return r.commands
}
