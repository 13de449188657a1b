package display

import "fmt"

// Recorder is a Frame that also keeps a log of every call made to it.
type Recorder struct {
	*Frame
	Ops   []string
	Modes []ConnectionMode
}

func NewRecorder() *Recorder {
	return &Recorder{Frame: NewFrame(Columns, Rows)}
}

func (r *Recorder) Init(mode ConnectionMode) error {
	r.Modes = append(r.Modes, mode)
	r.Ops = append(r.Ops, fmt.Sprintf("init(%s)", mode))
	return r.Frame.Init(mode)
}

func (r *Recorder) ClearRow(row int) error {
	r.Ops = append(r.Ops, fmt.Sprintf("clear(%d)", row))
	return r.Frame.ClearRow(row)
}

func (r *Recorder) SetCursor(col, row int) error {
	r.Ops = append(r.Ops, fmt.Sprintf("cursor(%d,%d)", col, row))
	return r.Frame.SetCursor(col, row)
}

func (r *Recorder) Write(text string) error {
	r.Ops = append(r.Ops, fmt.Sprintf("write(%q)", text))
	return r.Frame.Write(text)
}

// Reset forgets the call log but keeps the frame content.
func (r *Recorder) Reset() {
	r.Ops = nil
}
