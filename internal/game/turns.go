package game

// turnState tracks the acting order of a session. Ids are appended on first
// join and never removed; inactive participants are skipped when the pointer
// advances. The active participant is referenced by id, so appends never
// invalidate the pointer.
type turnState struct {
	order  []string
	active string
}

func (t *turnState) add(id string) {
	t.order = append(t.order, id)
	if t.active == "" {
		t.active = id
	}
}

func (t *turnState) indexOf(id string) int {
	for i, v := range t.order {
		if v == id {
			return i
		}
	}
	return -1
}

// advance moves the pointer to the next id for which isActive holds,
// wrapping around. When the current holder is the only active participant
// the pointer wraps back onto it; when nobody is active it stays put.
func (t *turnState) advance(isActive func(id string) bool) string {
	if len(t.order) == 0 {
		return t.active
	}
	start := t.indexOf(t.active)
	if start < 0 {
		start = 0
	}
	for step := 1; step <= len(t.order); step++ {
		candidate := t.order[(start+step)%len(t.order)]
		if isActive(candidate) {
			t.active = candidate
			break
		}
	}
	return t.active
}
