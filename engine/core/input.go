package core

// Input tracks key state so hosts can react to presses rather than repeats.
type Input struct {
	keys map[Key]bool
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

// Handle records a key event and reports whether it was a fresh press
// (up -> down). Non-key events return false.
func (in *Input) Handle(ev Event) (pressed bool) {
	e, ok := ev.(EventKey)
	if !ok {
		return false
	}
	was := in.keys[e.Key]
	in.keys[e.Key] = e.Down
	return e.Down && !was
}

func (in *Input) IsKeyDown(k Key) bool { return in.keys[k] }
