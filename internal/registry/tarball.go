package registry

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/svrx-labs/svrx/internal/branding"
)

// download retrieves a tarball into memory and verifies it against dist.
func (h *HTTPClient) download(ctx context.Context, m Manifest) ([]byte, error) {
	if m.Dist.Tarball == "" {
		return nil, fmt.Errorf("%s@%s has no tarball", m.Name, m.Version)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Dist.Tarball, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-cli")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s@%s: %w", m.Name, m.Version, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download of %s@%s returned status %d", m.Name, m.Version, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download stream: %w", err)
	}

	if err := verify(data, m.Dist); err != nil {
		return nil, fmt.Errorf("%s@%s: %w", m.Name, m.Version, err)
	}
	return data, nil
}

// verify checks data against the sha512 integrity string when present, and
// against the legacy sha1 shasum otherwise. A dist with neither is accepted.
func verify(data []byte, dist Dist) error {
	if algo, digest, ok := strings.Cut(dist.Integrity, "-"); ok && algo == "sha512" {
		sum := sha512.Sum512(data)
		actual := base64.StdEncoding.EncodeToString(sum[:])
		if actual != digest {
			return fmt.Errorf("integrity mismatch: expected %s, got sha512-%s", dist.Integrity, actual)
		}
		return nil
	}
	if dist.Shasum != "" {
		sum := sha1.Sum(data)
		actual := hex.EncodeToString(sum[:])
		if actual != dist.Shasum {
			return fmt.Errorf("checksum mismatch: expected %s, got %s", dist.Shasum, actual)
		}
	}
	return nil
}

// extract unpacks a gzipped package tarball into destDir, dropping the
// leading path component ("package/" by convention).
func extract(data []byte, destDir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		rel := stripFirstComponent(hdr.Name)
		if rel == "" {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))
		if !within(destDir, target) {
			return fmt.Errorf("tar entry %q escapes the package directory", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, os.FileMode(hdr.Mode).Perm()|0644); err != nil {
				return err
			}
		}
		// Links and special files are not part of published packages.
	}
	return nil
}

func writeEntry(r io.Reader, target string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", target, err)
	}
	return out.Close()
}

func stripFirstComponent(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return strings.TrimSuffix(rest, "/")
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
