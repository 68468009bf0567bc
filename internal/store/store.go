// Package store persists completed scans as JSON files, one per scan,
// so past attack surface snapshots can be reloaded and re-simulated.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/logging"
)

// Summary is the at-a-glance rollup stored with each scan.
type Summary struct {
	TotalAssets  int            `json:"total_assets"`
	VulnAssets   int            `json:"vuln_assets"`
	ShadowAssets int            `json:"shadow_assets"`
	Providers    map[string]int `json:"providers"`
}

// Scan is one persisted scan: the normalized assets plus the graph built
// from them.
type Scan struct {
	ID        string           `json:"id" validate:"required"`
	Name      string           `json:"name"`
	Timestamp time.Time        `json:"timestamp"`
	Summary   Summary          `json:"summary"`
	Assets    []domain.Asset   `json:"assets" validate:"dive"`
	Graph     []domain.Element `json:"graph"`
}

// Store reads and writes scans under a single data directory.
type Store struct {
	dataDir  string
	validate *validator.Validate
}

// NewStore creates the data directory if needed.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir, validate: validator.New()}, nil
}

// Save assigns the scan an id and timestamp if unset, computes its
// summary, and writes it to <data_dir>/<id>.json. It returns the scan id.
func (s *Store) Save(scan *Scan) (string, error) {
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	if scan.Timestamp.IsZero() {
		scan.Timestamp = time.Now().UTC()
	}
	scan.Summary = Summarize(scan.Assets)

	data, err := json.MarshalIndent(scan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding scan %s: %w", scan.ID, err)
	}
	path := s.scanPath(scan.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing scan %s: %w", scan.ID, err)
	}

	logging.LogInfo("Scan saved", map[string]any{
		"scan_id":  scan.ID,
		"resource": path,
	})
	return scan.ID, nil
}

// Load reads one scan by id and validates its assets.
func (s *Store) Load(id string) (*Scan, error) {
	data, err := os.ReadFile(s.scanPath(id))
	if err != nil {
		return nil, fmt.Errorf("reading scan %s: %w", id, err)
	}
	var scan Scan
	if err := json.Unmarshal(data, &scan); err != nil {
		return nil, fmt.Errorf("decoding scan %s: %w", id, err)
	}
	if err := s.validate.Struct(&scan); err != nil {
		return nil, fmt.Errorf("scan %s failed validation: %w", id, err)
	}
	return &scan, nil
}

// List returns the stored scan ids, newest file first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dataDir, err)
	}

	type scanFile struct {
		id      string
		modTime time.Time
	}
	files := make([]scanFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, scanFile{
			id:      strings.TrimSuffix(entry.Name(), ".json"),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.id)
	}
	return ids, nil
}

// Summarize computes the rollup for an asset list.
func Summarize(assets []domain.Asset) Summary {
	summary := Summary{
		TotalAssets: len(assets),
		Providers:   make(map[string]int),
	}
	for i := range assets {
		if assets[i].IsVulnerable() {
			summary.VulnAssets++
		}
		if assets[i].IsShadow() {
			summary.ShadowAssets++
		}
		if assets[i].Provider != "" {
			summary.Providers[assets[i].Provider]++
		}
	}
	return summary
}

func (s *Store) scanPath(id string) string {
	return filepath.Join(s.dataDir, id+".json")
}
