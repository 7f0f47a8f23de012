package build

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdsite/internal/manifest"
)

// RecordFileName is the build record's location inside the output directory.
const RecordFileName = "build-record.json"

// Record is a complete account of one build: inputs, per-page outputs, and
// timing. It is written next to the rendered site so deploy tooling can
// detect no-op rebuilds by comparing hashes.
type Record struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	SiteName   string       `json:"site_name"`
	Theme      string       `json:"theme"`
	Extensions []string     `json:"extensions,omitempty"`
	Pages      []PageRecord `json:"pages"`
	Status     string       `json:"status"`
	DurationMS int64        `json:"duration_ms"`
}

// PageRecord links one nav target to its rendered output.
type PageRecord struct {
	Target string `json:"target"`
	Output string `json:"output"`
	Hash   string `json:"hash"`
}

// NewRecord starts a record for a build of site.
func NewRecord(site *manifest.ResolvedSite) *Record {
	exts := make([]string, 0, len(site.Extensions))
	for _, e := range site.Extensions {
		exts = append(exts, e.ID)
	}
	return &Record{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		SiteName:   site.Meta.Name,
		Theme:      site.Theme.Name,
		Extensions: exts,
		Status:     "running",
	}
}

// Finish marks the record complete.
func (r *Record) Finish(elapsed time.Duration) {
	r.Status = "success"
	r.DurationMS = elapsed.Milliseconds()
}

// Duration returns the recorded build duration.
func (r *Record) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// ToJSON serializes the record.
func (r *Record) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal build record: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a record.
func FromJSON(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal build record: %w", err)
	}
	return &r, nil
}

// Write persists the record to path.
func (r *Record) Write(path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ContentHash is a deterministic hash over the record's page outputs,
// stable across builds with identical rendered content.
func (r *Record) ContentHash() (string, error) {
	input := struct {
		SiteName   string       `json:"site_name"`
		Theme      string       `json:"theme"`
		Extensions []string     `json:"extensions"`
		Pages      []PageRecord `json:"pages"`
	}{r.SiteName, r.Theme, r.Extensions, r.Pages}

	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
