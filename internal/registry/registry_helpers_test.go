package registry

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeRegistry serves packuments and tarballs from memory.
type fakeRegistry struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	packages  map[string]*Packument
	tarballs  map[string][]byte
	requests  []string
	corrupted map[string]bool
}

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()
	f := &fakeRegistry{
		t:         t,
		packages:  make(map[string]*Packument),
		tarballs:  make(map[string][]byte),
		corrupted: make(map[string]bool),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRegistry) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := strings.TrimPrefix(r.URL.Path, "/")
	f.requests = append(f.requests, p)

	if strings.HasPrefix(p, "-/tarballs/") {
		data, ok := f.tarballs[p]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if f.corrupted[p] {
			data = append([]byte{}, data...)
			data[len(data)-1] ^= 0xff
		}
		w.Write(data)
		return
	}

	pkg, ok := f.packages[p]
	if !ok {
		http.NotFound(w, r)
		return
	}
	json.NewEncoder(w).Encode(pkg)
}

// publish adds name@version with the given dependencies and files.
func (f *fakeRegistry) publish(name, version string, deps map[string]string, files map[string]string) {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	pkgJSON, _ := json.Marshal(map[string]any{
		"name":         name,
		"version":      version,
		"dependencies": deps,
	})
	all := map[string]string{"package.json": string(pkgJSON)}
	for k, v := range files {
		all[k] = v
	}
	data := buildTarball(f.t, all)

	key := "-/tarballs/" + strings.ReplaceAll(name, "/", "_") + "-" + version + ".tgz"
	f.tarballs[key] = data

	sum := sha512.Sum512(data)
	p, ok := f.packages[name]
	if !ok {
		p = &Packument{Name: name, DistTags: map[string]string{}, Versions: map[string]Manifest{}}
		f.packages[name] = p
	}
	p.Versions[version] = Manifest{
		Name:         name,
		Version:      version,
		Dependencies: deps,
		Dist: Dist{
			Tarball:   f.server.URL + "/" + key,
			Integrity: "sha512-" + base64.StdEncoding.EncodeToString(sum[:]),
		},
	}
}

func (f *fakeRegistry) tag(name, tag, version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.packages[name].DistTags[tag] = version
}

func (f *fakeRegistry) corrupt(name, version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.corrupted["-/tarballs/"+strings.ReplaceAll(name, "/", "_")+"-"+version+".tgz"] = true
}

func (f *fakeRegistry) client() *HTTPClient {
	return New(WithRegistryURL(f.server.URL), WithHTTPClient(f.server.Client()))
}

// buildTarball creates a package tarball with every file under "package/".
func buildTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for name, content := range files {
		hdr := &tar.Header{
			Name:     "package/" + name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
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
