package lower

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"matcha/syntax"
)

// TestGoldenIR compiles every script under testdata and compares its printed
// IR against the checked-in golden listing.  Regenerate with `go test
// -update` after an intentional printer or lowering change.
func TestGoldenIR(t *testing.T) {
	scripts, err := filepath.Glob("testdata/*.mt")
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, path := range scripts {
		name := strings.TrimSuffix(filepath.Base(path), ".mt")

		t.Run(name, func(t *testing.T) {
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			script, err := syntax.Parse(f)
			require.NoError(t, err)

			mod, err := Lower(name, script, nil, nil)
			require.NoError(t, err)

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, []byte(mod.Repr()))
		})
	}
}
