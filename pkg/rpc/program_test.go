package rpc

import (
	"fmt"
	"testing"

	"github.com/wraith13/never-stop-watch/pkg/env"
	. "github.com/wraith13/never-stop-watch/pkg/prog/progtest"
	"github.com/wraith13/never-stop-watch/pkg/testutil"
)

func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestProgram(t *testing.T) {
	testutil.Setenv(t, env.HOME, testutil.TempDir(t))
	testutil.Unsetenv(t, env.NSW_CONFIG)

	Test(t, Program,
		ThatNsw().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
		ThatNsw("-rpc", "extra").ExitsWith(2).
			WritesStderrContaining("arguments are not supported with -rpc"),
		ThatNsw("-rpc", "-tree", "/no/such/tree.json").ExitsWith(2).
			WritesStderrContaining("no such file"),
		ThatNsw("-rpc").
			WithStdin(frame(`{"jsonrpc":"2.0","id":1,"method":"types"}`)).
			WritesStdoutContaining(`"result":["group","label","list","placeholder","screen","segment","ticker","title","toast"]`),
	)
}
