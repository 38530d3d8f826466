package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yasabs10/panelreader/detect"
	"github.com/Yasabs10/panelreader/internal/batch"
	"github.com/Yasabs10/panelreader/model"
	"github.com/Yasabs10/panelreader/pages"
	"github.com/Yasabs10/panelreader/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-archive>",
	Short: "Resolve reading order for every page in a directory or CBZ archive",
	Long: `Resolve reading order for every page image in a directory, or inside a
CBZ/ZIP archive. Pages are processed in parallel and one result JSON is
written per page, named after the page image.

Detection boxes come from an external detector command (--detect-cmd) or
from a directory of per-page JSON files (--boxes-dir) where each page
image foo.png has a matching foo.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchBoxesDir  string
	batchDetectCmd string
	batchOutDir    string
	batchWorkers   int
	batchInterval  time.Duration
	batchNoCache   bool
	batchTimeout   time.Duration
)

func init() {
	RootCmd.AddCommand(batchCmd)
	orderingFlags(batchCmd)

	batchCmd.Flags().StringVar(&batchBoxesDir, "boxes-dir", "", "Directory of per-page detection JSON files")
	batchCmd.Flags().StringVar(&batchDetectCmd, "detect-cmd", "", "External detector command")
	batchCmd.Flags().StringVarP(&batchOutDir, "output-dir", "o", "", "Directory for result JSON files (required)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Pages processed concurrently (0 means one per CPU)")
	batchCmd.Flags().DurationVar(&batchInterval, "interval", 0, "Minimum delay between page starts")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "Disable the per-page result cache")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "Abort the whole run after this duration (0 means no limit)")

	if err := batchCmd.MarkFlagRequired("output-dir"); err != nil {
		panic(err)
	}
}

// boxesDirSource maps each page image to a JSON file of the same stem
// in a fixed directory.
type boxesDirSource struct {
	dir string
}

func (b boxesDirSource) Boxes(ctx context.Context, imagePath string) ([]model.Box, error) {
	stem := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return detect.NewFileSource(filepath.Join(b.dir, stem+".json")).Boxes(ctx, imagePath)
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	if batchBoxesDir == "" && batchDetectCmd == "" {
		return fmt.Errorf("either --boxes-dir or --detect-cmd is required")
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	paths, cleanup, err := collectPages(input)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	if len(paths) == 0 {
		return fmt.Errorf("no page images found in %s", input)
	}

	var source detect.Source
	if batchDetectCmd != "" {
		source = detect.NewCommandSource(batchDetectCmd)
	} else {
		source = boxesDirSource{dir: batchBoxesDir}
	}

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return err
	}

	ctx := cmd.Context()
	if batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, batchTimeout)
		defer cancel()
	}

	runner := batch.New(source, opts, batch.Config{
		Concurrency:  batchWorkers,
		Interval:     batchInterval,
		DisableCache: batchNoCache,
	})
	results, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}

	var failed int
	for _, res := range results {
		if res.Err != nil {
			slog.Error("page failed", "page", res.Path, "err", res.Err)
			failed++
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
		outPath := filepath.Join(batchOutDir, stem+".json")
		if err := report.WriteJSONFile(outPath, res.Order); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}

	slog.Info("batch finished", "pages", len(results), "failed", failed)
	if failed == len(results) {
		return fmt.Errorf("all %d pages failed", failed)
	}
	return nil
}

// collectPages lists the page images of a directory, or extracts an
// archive into a temporary directory first. The returned cleanup
// function removes that directory.
func collectPages(input string) ([]string, func(), error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, nil, err
	}

	if fi.IsDir() {
		paths, err := pages.List(input)
		return paths, nil, err
	}

	if !pages.IsArchive(input) {
		return nil, nil, fmt.Errorf("%s is neither a directory nor a supported archive", input)
	}

	tmp, err := os.MkdirTemp("", "panelreader-batch-")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(tmp) }

	paths, err := pages.Extract(input, tmp)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return paths, cleanup, nil
}
