package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"dupereview/internal/config"
	"dupereview/internal/testsupport"
)

type fakeScene struct {
	title   string
	deleted bool
	pending int
}

type submittedEdit struct {
	SceneID string
	Comment string
}

// fakeCatalog answers the GraphQL operations the commands issue.
type fakeCatalog struct {
	mu     sync.Mutex
	scenes map[string]fakeScene
	edits  []submittedEdit
	server *httptest.Server
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	fc := &fakeCatalog{scenes: map[string]fakeScene{}}
	fc.server = httptest.NewServer(http.HandlerFunc(fc.handle))
	t.Cleanup(fc.server.Close)
	return fc
}

func (f *fakeCatalog) set(id string, scene fakeScene) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes[id] = scene
}

func (f *fakeCatalog) submitted() []submittedEdit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]submittedEdit(nil), f.edits...)
}

func (f *fakeCatalog) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OperationName string          `json:"operationName"`
		Variables     json.RawMessage `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch req.OperationName {
	case "Scene":
		var vars struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(req.Variables, &vars)
		scene, ok := f.scenes[vars.ID]
		if !ok {
			_, _ = io.WriteString(w, `{"data":{"findScene":null}}`)
			return
		}
		fmt.Fprintf(w, `{"data":{"findScene":{"id":%q,"title":%q,"duration":1800,"deleted":%t,`+
			`"studio":{"id":"s1","name":"Studio One"},"fingerprints":[{"algorithm":"PHASH","hash":"abcd","duration":1800,"submissions":3}],`+
			`"urls":[{"url":"https://studio.example.com/%s","site":{"name":"Studio"}}]}}}`,
			vars.ID, scene.title, scene.deleted, vars.ID)
	case "PendingEditsCount":
		var vars struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(req.Variables, &vars)
		fmt.Fprintf(w, `{"data":{"queryEdits":{"count":%d}}}`, f.scenes[vars.ID].pending)
	case "SceneEdit":
		var vars struct {
			SceneData struct {
				Edit struct {
					ID      string `json:"id"`
					Comment string `json:"comment"`
				} `json:"edit"`
			} `json:"sceneData"`
		}
		_ = json.Unmarshal(req.Variables, &vars)
		f.edits = append(f.edits, submittedEdit{SceneID: vars.SceneData.Edit.ID, Comment: vars.SceneData.Edit.Comment})
		fmt.Fprintf(w, `{"data":{"sceneEdit":{"id":"edit-%d"}}}`, len(f.edits))
	case "Me":
		_, _ = io.WriteString(w, `{"data":{"me":{"id":"u1","name":"reviewer"}}}`)
	default:
		http.Error(w, "unknown operation "+req.OperationName, http.StatusBadRequest)
	}
}

type cliTestEnv struct {
	cfg        *config.Config
	catalog    *fakeCatalog
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	catalog := newFakeCatalog(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogURL(catalog.server.URL))
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("STASHBOX_API_KEY", "")

	configPath := filepath.Join(homeDir, ".config", "dupereview", "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	for _, id := range []string{"a1", "b1", "a2", "b2", "a3", "b3"} {
		catalog.set(id, fakeScene{title: "Scene " + strings.ToUpper(id)})
	}

	return &cliTestEnv{
		cfg:        cfg,
		catalog:    catalog,
		configPath: configPath,
		baseDir:    base,
	}
}

// loadPairs writes a three-pair batch where the middle pair is decided and
// loads it.
func (e *cliTestEnv) loadPairs(t *testing.T, extra ...string) string {
	t.Helper()
	path := testsupport.WriteCSV(t, e.baseDir, "scenes.csv",
		"a1,b1,0.91,1,0.98,0.97,0,",
		"a2,b2,0.40,0,0.51,0.50,0,Different",
		"a3,b3,0.88,1,0.95,0.96,0,Review",
	)
	out, _, err := runCLI(t, append([]string{"load", path}, extra...), e.configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return out
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, input string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
