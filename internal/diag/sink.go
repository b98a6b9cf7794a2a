// Package diag owns the per-run artifacts directory: diagnostic screenshots
// captured on verification failures and the structured end-of-run report.
// The core pushes to the sink and never reads back.
package diag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/v0xg/railcheck/internal/verify"
)

// maxShotWidth bounds stored screenshots; full-size captures of a 1280px
// viewport bloat the artifacts dir without adding diagnostic value.
const maxShotWidth = 800

// Step is a coarse workflow phase recorded for the run report.
type Step struct {
	Name   string    `json:"name"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// Sink writes named binary attachments and step records for one run.
type Sink struct {
	dir     string
	runID   string
	started time.Time
	log     *zap.Logger

	mu    sync.Mutex
	seq   int
	steps []Step
}

// NewSink creates the artifacts directory for a fresh run under baseDir.
func NewSink(baseDir string, log *zap.Logger) (*Sink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()[:8]
	dir := filepath.Join(baseDir, time.Now().Format("20060102-150405")+"-"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts dir: %w", err)
	}
	return &Sink{dir: dir, runID: runID, started: time.Now(), log: log}, nil
}

// Dir returns the artifacts directory of this run.
func (s *Sink) Dir() string {
	return s.dir
}

// RunID returns the short run identifier.
func (s *Sink) RunID() string {
	return s.runID
}

// Record appends a step/status entry to the run report.
func (s *Sink) Record(name, status string) {
	s.mu.Lock()
	s.steps = append(s.steps, Step{Name: name, Status: status, At: time.Now()})
	s.mu.Unlock()
}

// Screenshot captures the current page and stores it as an attachment,
// returning the stored file name.
func (s *Sink) Screenshot(page *rod.Page, label string) (string, error) {
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("capturing screenshot: %w", err)
	}
	return s.AttachPNG(label, data)
}

// AttachPNG stores a PNG attachment, downscaling anything wider than
// maxShotWidth, and returns the file name it was written under.
func (s *Sink) AttachPNG(label string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding attachment %q: %w", label, err)
	}

	if img.Bounds().Dx() > maxShotWidth {
		img = resize.Resize(maxShotWidth, 0, img, resize.Lanczos3)
	}

	s.mu.Lock()
	s.seq++
	name := fmt.Sprintf("shot-%03d-%s.png", s.seq, slug(label))
	s.mu.Unlock()

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("writing attachment: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding attachment: %w", err)
	}
	s.log.Debug("attachment stored", zap.String("file", name))
	return name, nil
}

// report is the on-disk run report layout.
type report struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Verdict    string          `json:"verdict"`
	Steps      []Step          `json:"steps"`
	Records    []verify.Record `json:"records"`
}

// WriteReport serializes the run verdict, step records, and the full
// verification ledger into report.json.
func (s *Sink) WriteReport(records []verify.Record, verdict string) error {
	s.mu.Lock()
	steps := make([]Step, len(s.steps))
	copy(steps, s.steps)
	s.mu.Unlock()

	rep := report{
		RunID:      s.runID,
		StartedAt:  s.started,
		FinishedAt: time.Now(),
		Verdict:    verdict,
		Steps:      steps,
		Records:    records,
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, "report.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// slug makes a label safe for use in a file name.
func slug(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '-')
		}
	}
	const max = 40
	if len(out) > max {
		out = out[:max]
	}
	return strings.Trim(string(out), "-")
}
