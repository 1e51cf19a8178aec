package host

import (
	"path/filepath"
	"testing"

	"github.com/wraith13/never-stop-watch/pkg/env"
	. "github.com/wraith13/never-stop-watch/pkg/prog/progtest"
	"github.com/wraith13/never-stop-watch/pkg/testutil"
)

func TestProgram(t *testing.T) {
	dir := testutil.WriteFiles(testutil.TempDir(t), testutil.Files{
		"bad.yaml":  "tick: 1s\n",
		"tree.json": `{"type": "label", "children": 3}`,
		"ok.yaml":   "theme: dark\n",
	})
	testutil.Setenv(t, env.HOME, dir)
	testutil.Unsetenv(t, env.NSW_CONFIG)

	Test(t, Program,
		ThatNsw("extra").ExitsWith(2).
			WritesStderrContaining("arguments are not supported"),
		ThatNsw("-config", filepath.Join(dir, "bad.yaml")).ExitsWith(2).
			WritesStderrContaining("field tick not found"),
		ThatNsw("-config", filepath.Join(dir, "ok.yaml"), "-db", filepath.Join(dir, "db", "nsw.bolt"),
			"-tree", filepath.Join(dir, "tree.json")).ExitsWith(2).
			WritesStderrContaining("children must be an array or an object"),
	)
}
