package domain

import "sync"

// Palette is the fixed set of display colors handed out to usernames.
// Once every color is taken the cycle wraps around and colors are reused.
var Palette = []string{
	"#FFD700", "#87CEEB", "#FFB6C1", "#98FB98", "#FFA07A",
	"#DDA0DD", "#00CED1", "#FF6347", "#40E0D0", "#F08080",
}

// ColorAssigner maps usernames to display colors. Assignments are
// permanent for the process lifetime so a reconnecting user keeps the
// same color. A single monotonic counter is shared across all usernames.
type ColorAssigner struct {
	mu     sync.Mutex
	next   int
	colors map[string]string
}

func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{colors: make(map[string]string)}
}

// Assign returns the color bound to username, creating the binding on
// first use. Calling it again for the same username is idempotent.
func (a *ColorAssigner) Assign(username string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.colors[username]; ok {
		return c
	}
	c := Palette[a.next%len(Palette)]
	a.colors[username] = c
	a.next++
	return c
}

// Snapshot returns a copy of the full username to color mapping.
func (a *ColorAssigner) Snapshot() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]string, len(a.colors))
	for u, c := range a.colors {
		out[u] = c
	}
	return out
}
