//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/svrx-labs/svrx/internal/branding"
	"github.com/svrx-labs/svrx/internal/installer"
	"github.com/svrx-labs/svrx/internal/manager"
	"github.com/svrx-labs/svrx/internal/registry"
	"github.com/svrx-labs/svrx/internal/task"
	"github.com/svrx-labs/svrx/internal/userdata"
)

// testEnv holds an isolated home directory and a registry serving it.
type testEnv struct {
	HomeDir  string
	TempDir  string
	Registry *npmRegistry
	Manager  *manager.Manager
}

// setupTestEnv points SVRX_HOME at a temp directory, starts a registry and
// builds a manager whose install tasks run in-process against it.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	tmp := t.TempDir()
	t.Setenv("SVRX_HOME", home)
	t.Setenv("TMPDIR", tmp)
	t.Setenv("SVRX_VERSIONS", "")
	t.Setenv("SVRX_PLUGINS", "")

	reg := newNPMRegistry(t)
	client := reg.client()

	layout, err := userdata.ResolveLayout("")
	if err != nil {
		t.Fatalf("ResolveLayout: %v", err)
	}

	worker := &installer.Worker{
		Client:  client,
		Package: branding.CorePackage(),
		Entry:   branding.EntryModule(),
	}
	m, err := manager.New(manager.Options{
		Layout:   layout,
		Registry: client,
		Spawner:  task.FuncSpawner(worker.Handler()),
	})
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	return &testEnv{HomeDir: home, TempDir: tmp, Registry: reg, Manager: m}
}

// npmRegistry is a minimal npm registry: packuments at /<name>, tarballs
// under /-/tarballs/.
type npmRegistry struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	packages map[string]*registry.Packument
	tarballs map[string][]byte
}

func newNPMRegistry(t *testing.T) *npmRegistry {
	t.Helper()
	r := &npmRegistry{
		t:        t,
		packages: make(map[string]*registry.Packument),
		tarballs: make(map[string][]byte),
	}
	r.server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.server.Close)
	return r
}

func (r *npmRegistry) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := strings.TrimPrefix(req.URL.Path, "/")
	if data, ok := r.tarballs[p]; ok {
		w.Write(data)
		return
	}
	pkg, ok := r.packages[p]
	if !ok {
		http.NotFound(w, req)
		return
	}
	json.NewEncoder(w).Encode(pkg)
}

func (r *npmRegistry) client() *registry.HTTPClient {
	return registry.New(registry.WithRegistryURL(r.server.URL), registry.WithHTTPClient(r.server.Client()))
}

// publish adds name@version. files are relative to the package root.
func (r *npmRegistry) publish(name, version string, deps, files map[string]string) {
	r.t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	pkgJSON, _ := json.Marshal(map[string]any{"name": name, "version": version, "dependencies": deps})
	all := map[string]string{"package.json": string(pkgJSON)}
	for k, v := range files {
		all[k] = v
	}
	data := buildTarball(r.t, all)
	key := "-/tarballs/" + strings.ReplaceAll(name, "/", "_") + "-" + version + ".tgz"
	r.tarballs[key] = data

	p, ok := r.packages[name]
	if !ok {
		p = &registry.Packument{Name: name, DistTags: map[string]string{}, Versions: map[string]registry.Manifest{}}
		r.packages[name] = p
	}
	sum := sha512.Sum512(data)
	p.Versions[version] = registry.Manifest{
		Name:         name,
		Version:      version,
		Dependencies: deps,
		Dist: registry.Dist{
			Tarball:   r.server.URL + "/" + key,
			Integrity: "sha512-" + base64.StdEncoding.EncodeToString(sum[:]),
		},
	}
}

func (r *npmRegistry) tag(name, tag, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[name].DistTags[tag] = version
}

// publishCore publishes a core version whose entry module prints the
// options it was started with.
func (r *npmRegistry) publishCore(version string, deps map[string]string) {
	r.publish(branding.CorePackage(), version, deps, map[string]string{
		branding.EntryModule(): `module.exports = class Svrx {
  constructor(_, options) { this.options = options; }
  start() { console.log("SVRX_STARTED:" + process.env.SVRX_VERSION + ":" + JSON.stringify(this.options)); }
};
`,
	})
}

func buildTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		hdr := &tar.Header{Name: "package/" + name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	tw.Close()
	gw.Close()
	return buf.Bytes()
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertNoStaging fails if an install left a staging directory in the
// temp directory.
func assertNoStaging(t *testing.T, tmp string) {
	t.Helper()
	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("reading %s: %v", tmp, err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "-install-") {
			t.Errorf("staging directory left behind: %s", filepath.Join(tmp, e.Name()))
		}
	}
}
