//go:build profile

// Package profiler records nested timing scopes into a fixed ring and dumps
// them as a speedscope evented profile. Without the "profile" build tag every
// call is a no-op.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Enabled reports whether scopes are recorded in this build.
const Enabled = true

var ErrNoEvents = errors.New("profiler: no events recorded")

// Init allocates room for capacity scope events; older events are
// overwritten once it fills. Scopes started before Init are dropped.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	ring.init(capacity)
}

// Start opens a scope and returns the func that closes it.
func Start(name string) func() {
	if !ring.ready.Load() {
		return func() {}
	}
	id := intern(name)
	open := time.Now().UnixNano()
	ring.push(event{at: open, frame: id, open: true})
	return func() {
		end := max(time.Now().UnixNano(), open)
		ring.push(event{at: end, frame: id})
	}
}

// Dump writes the recorded scopes to path.
func Dump(path string) error {
	evs := ring.snapshot()
	if len(evs) == 0 {
		return ErrNoEvents
	}
	doc, err := speedscope(evs)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("profiler dump: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("profiler dump: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("profiler dump: %w", err)
	}
	return os.Rename(tmp, path)
}

type event struct {
	at    int64 // unix ns
	frame int
	open  bool
}

type eventRing struct {
	ready atomic.Bool
	size  uint64
	write atomic.Uint64
	evs   []event
}

func (r *eventRing) init(capacity int) {
	r.ready.Store(false)
	r.size = uint64(capacity)
	r.evs = make([]event, r.size)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *eventRing) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.size] = e
}

// snapshot returns events in write order.
func (r *eventRing) snapshot() []event {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.size {
		start = n - r.size
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.size])
	}
	return out
}

var ring eventRing

var (
	namesMu sync.Mutex
	names   []string
	nameIDs = map[string]int{}
)

func intern(name string) int {
	namesMu.Lock()
	defer namesMu.Unlock()
	if id, ok := nameIDs[name]; ok {
		return id
	}
	id := len(names)
	nameIDs[name] = id
	names = append(names, name)
	return id
}

// speedscope file format, evented profile.
type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

// speedscope converts ring events to a balanced evented profile. Closes
// without a matching open (their open was overwritten) are dropped and
// scopes still open at the end are closed at the last timestamp.
func speedscope(evs []event) (*ssFile, error) {
	namesMu.Lock()
	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}
	namesMu.Unlock()

	base := evs[0].at
	out := make([]ssEvent, 0, len(evs))
	stack := make([]int, 0, 16)
	var last int64

	for _, e := range evs {
		at := max((e.at-base)/1000, last)
		if e.open {
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.frame})
			stack = append(stack, e.frame)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.frame})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}
	if len(out) == 0 {
		return nil, ErrNoEvents
	}

	return &ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "panlab frames",
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "panlab-profiler",
		Name:     "panlab capture",
	}, nil
}
