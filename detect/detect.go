package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/Yasabs10/panelreader/model"
)

// Source yields raw detector boxes for a page image. Implementations
// must be safe for concurrent use by independent pages.
type Source interface {
	// Boxes returns the raw, unordered panel boxes for the image at
	// imagePath, in image-pixel coordinates.
	Boxes(ctx context.Context, imagePath string) ([]model.Box, error)
}

// detectorOutput is the JSON shape produced by the external detector:
// one [x1, y1, x2, y2] quadruple per raw detection.
type detectorOutput struct {
	Boxes [][4]float64 `json:"boxes"`
}

// parseBoxes converts detector JSON into boxes, skipping degenerate
// entries.
func parseBoxes(data []byte) ([]model.Box, error) {
	var out detectorOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("detect: decoding detector output: %w", err)
	}

	boxes := make([]model.Box, 0, len(out.Boxes))
	for _, b := range out.Boxes {
		box := model.NewBox(b[0], b[1], b[2], b[3])
		if !box.IsValid() {
			slog.Debug("skipping degenerate detection", "box", b)
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

// FileSource reads raw boxes from a detector output file. The path is
// fixed at construction, so a FileSource serves exactly one page.
type FileSource struct {
	Path string
}

// NewFileSource creates a source backed by a detector JSON file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Boxes reads and parses the detector file. The imagePath argument is
// ignored; the file already belongs to one specific page.
func (f *FileSource) Boxes(_ context.Context, _ string) ([]model.Box, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("detect: reading %s: %w", f.Path, err)
	}
	return parseBoxes(data)
}

// CommandSource runs an external detector command per page. The image
// path is appended to Args, and the command must print detector JSON
// on stdout. Model loading, weight acquisition, and device selection
// all live behind the command.
type CommandSource struct {
	Command string
	Args    []string
}

// NewCommandSource creates a source that spawns the given command.
func NewCommandSource(command string, args ...string) *CommandSource {
	return &CommandSource{Command: command, Args: args}
}

// Boxes runs the detector against imagePath. The context deadline, if
// any, kills the process.
func (c *CommandSource) Boxes(ctx context.Context, imagePath string) ([]model.Box, error) {
	args := append(append([]string{}, c.Args...), imagePath)
	cmd := exec.CommandContext(ctx, c.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running detector", "command", c.Command, "image", imagePath)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("detect: detector aborted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("detect: detector failed: %w (stderr: %s)", err, stderr.String())
	}

	return parseBoxes(stdout.Bytes())
}

// StaticSource serves a fixed set of boxes. It is mainly useful for
// tests and for callers that already hold detections in memory.
type StaticSource struct {
	boxes []model.Box
}

// NewStaticSource creates a source returning the given boxes as-is.
func NewStaticSource(boxes []model.Box) *StaticSource {
	return &StaticSource{boxes: boxes}
}

// Boxes returns the fixed box set.
func (s *StaticSource) Boxes(_ context.Context, _ string) ([]model.Box, error) {
	return s.boxes, nil
}
