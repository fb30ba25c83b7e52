package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	loader := NewCensoredLoader(censoredFolder)

	data, err := loader.LoadAll("censored")
	req.NoError(err)

	// One language per dictionary file
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
	req.NotEmpty(data.Words)

	// Words are deduplicated across files
	seen := make(map[string]struct{}, len(data.Words))
	for _, w := range data.Words {
		_, duplicate := seen[w]
		req.False(duplicate, "duplicate word %q", w)
		seen[w] = struct{}{}
	}
}

func TestCensoredLoader_UnknownPath(t *testing.T) {
	req := require.New(t)
	loader := NewCensoredLoader(censoredFolder)

	_, err := loader.LoadAll("nowhere")
	req.Error(err)
}
