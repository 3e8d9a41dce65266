package viewer

// LoadState tracks whether the textures of the scene are still arriving.
type LoadState int

const (
	Loading LoadState = iota
	Ready
)

// texturesExpected is the number of distinct textures that moves the viewer
// to Ready.
const texturesExpected = 2

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// loadTracker counts the scene's textures as they arrive. Only ids passed to
// expect are counted; the state turns Ready once all of them are in.
type loadTracker struct {
	state  LoadState
	loaded map[string]bool
}

func newLoadTracker() loadTracker {
	return loadTracker{state: Loading, loaded: make(map[string]bool, texturesExpected)}
}

func (t *loadTracker) expect(ids ...string) {
	for _, id := range ids {
		t.loaded[id] = false
	}
}

// mark records a loaded texture id and reports whether it was counted.
func (t *loadTracker) mark(id string) bool {
	if t.state == Ready {
		return false
	}
	if done, ok := t.loaded[id]; !ok || done {
		return false
	}
	t.loaded[id] = true
	if t.count() == len(t.loaded) {
		t.state = Ready
	}
	return true
}

func (t *loadTracker) count() int {
	n := 0
	for _, done := range t.loaded {
		if done {
			n++
		}
	}
	return n
}
