//go:build e2e

package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var slateBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "slate-e2e-*")
	if err != nil {
		panic(err)
	}

	slateBinary = filepath.Join(tmpDir, "slate")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", slateBinary, "./cmd/slate")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build slate binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"taskid": cmdTaskID,
		},
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")

	binDir := filepath.Dir(slateBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	return nil
}

// cmdTaskID looks up a task by exact title in the working project and stores
// its id in an environment variable. Ids are minted at add time, so scripts
// cannot know them up front.
//
//	taskid 'Design homepage' DESIGN
func cmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) != 2 {
		ts.Fatalf("usage: taskid TITLE ENVVAR")
	}

	dir := ts.MkAbs(filepath.Join(".slate", "tasks"))
	entries, err := os.ReadDir(dir)
	ts.Check(err)

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		ts.Check(err)

		var doc struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		ts.Check(json.Unmarshal(data, &doc))

		if doc.Title == args[0] {
			ts.Setenv(args[1], doc.ID)
			return
		}
	}

	ts.Fatalf("no task titled %q under %s", args[0], dir)
}
