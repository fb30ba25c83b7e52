package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorAssigner_Idempotent(t *testing.T) {
	req := require.New(t)
	assigner := NewColorAssigner()

	// Given alice gets the first palette color
	first := assigner.Assign("alice")
	req.Equal(Palette[0], first)

	// When alice asks again, the counter must not advance
	req.Equal(first, assigner.Assign("alice"))

	// Then bob still gets the second color
	req.Equal(Palette[1], assigner.Assign("bob"))
}

func TestColorAssigner_WrapsAround(t *testing.T) {
	req := require.New(t)
	assigner := NewColorAssigner()

	for i := range Palette {
		req.Equal(Palette[i], assigner.Assign(fmt.Sprintf("user_%d", i)))
	}

	// One more user than colors : the cycle wraps
	req.Equal(Palette[0], assigner.Assign("one_too_many"))
}

func TestColorAssigner_SnapshotIsACopy(t *testing.T) {
	req := require.New(t)
	assigner := NewColorAssigner()
	assigner.Assign("alice")
	assigner.Assign("bob")

	snapshot := assigner.Snapshot()
	req.Len(snapshot, 2)
	req.Equal(Palette[0], snapshot["alice"])
	req.Equal(Palette[1], snapshot["bob"])

	// Mutating the snapshot must not leak into the assigner
	snapshot["alice"] = "#000000"
	req.Equal(Palette[0], assigner.Assign("alice"))
}
