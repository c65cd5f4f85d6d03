package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/site"
)

const (
	// ManifestFile is written at the root of the output directory.
	ManifestFile    = "build-manifest.json"
	manifestVersion = 1
)

// Manifest describes one generated site tree.
type Manifest struct {
	Version     int                `json:"version"`
	BuildID     string             `json:"build_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Pages       []ManifestPage     `json:"pages"`
	Skipped     []ManifestDiagnose `json:"skipped,omitempty"`
}

// ManifestPage is one written route.
type ManifestPage struct {
	Route string `json:"route"`
	Slug  string `json:"slug,omitempty"`
	// Source is the content file the page was rendered from.
	Source string `json:"source,omitempty"`
	Output string `json:"output"`
	Title  string `json:"title"`
	// Fingerprint identifies the source content independent of header key order.
	Fingerprint string `json:"fingerprint,omitempty"`
	// Checksum is the SHA-256 of the written HTML.
	Checksum string `json:"checksum"`
}

// ManifestDiagnose is a route that was enumerated but not written.
type ManifestDiagnose struct {
	Route string `json:"route"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

func manifestEntry(p site.Page, output string) ManifestPage {
	sum := sha256.Sum256(p.HTML)
	return ManifestPage{
		Route:       p.Route,
		Slug:        p.Slug,
		Source:      p.Source,
		Output:      filepath.ToSlash(output),
		Title:       p.Title,
		Fingerprint: p.Fingerprint,
		Checksum:    hex.EncodeToString(sum[:]),
	}
}

func newManifest(buildID string, generated time.Time, pages []ManifestPage, diags []Diagnostic) *Manifest {
	m := &Manifest{
		Version:     manifestVersion,
		BuildID:     buildID,
		GeneratedAt: generated,
		Pages:       append([]ManifestPage(nil), pages...),
	}
	sort.Slice(m.Pages, func(i, j int) bool { return m.Pages[i].Route < m.Pages[j].Route })
	for _, d := range diags {
		m.Skipped = append(m.Skipped, ManifestDiagnose{Route: d.Route, Stage: d.Stage, Error: d.Err.Error()})
	}
	return m
}

func (m *Manifest) write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return derrors.InternalError("marshal build manifest", err)
	}
	return writeFile(filepath.Join(dir, ManifestFile), append(data, '\n'))
}

// ReadManifest loads the manifest from a generated output directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) // #nosec G304 -- output directory from config
	if err != nil {
		return nil, derrors.OutputError("read manifest", err).WithContext("path", dir)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// Unchanged reports whether two manifests describe identical source content.
// Build ids and timestamps are ignored.
func Unchanged(a, b *Manifest) bool {
	if a == nil || b == nil || len(a.Pages) != len(b.Pages) || len(a.Skipped) != len(b.Skipped) {
		return false
	}
	for i := range a.Pages {
		pa, pb := a.Pages[i], b.Pages[i]
		if pa.Route != pb.Route || pa.Source != pb.Source || pa.Fingerprint != pb.Fingerprint {
			return false
		}
	}
	return true
}
