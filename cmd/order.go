package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yasabs10/panelreader"
	"github.com/Yasabs10/panelreader/report"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Resolve the panel reading order of a single page",
	Long: `Resolve the panel reading order of a single page image.

Detection boxes come either from a JSON file ({"boxes": [[x1,y1,x2,y2], ...]})
or from an external detector command that receives the image path as its final
argument and prints that JSON on stdout. The result is written as JSON, with
panels numbered in reading order.`,
	RunE: runOrder,
}

var (
	orderImage     string
	orderBoxes     string
	orderDetectCmd string
	orderOut       string
	orderHTML      string
	orderTimeout   time.Duration
)

func init() {
	RootCmd.AddCommand(orderCmd)
	orderingFlags(orderCmd)

	orderCmd.Flags().StringVar(&orderImage, "image", "", "Path to the page image (required)")
	orderCmd.Flags().StringVar(&orderBoxes, "boxes", "", "Path to a detection boxes JSON file")
	orderCmd.Flags().StringVar(&orderDetectCmd, "detect-cmd", "", "External detector command")
	orderCmd.Flags().StringVarP(&orderOut, "output", "o", "", "Output path for the result JSON (prints to stdout if not specified)")
	orderCmd.Flags().StringVar(&orderHTML, "html", "", "Also write an HTML overlay report to this path")
	orderCmd.Flags().DurationVar(&orderTimeout, "timeout", 0, "Abort processing after this duration (0 means no limit)")

	if err := orderCmd.MarkFlagRequired("image"); err != nil {
		panic(err)
	}
}

func runOrder(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(orderImage); os.IsNotExist(err) {
		return fmt.Errorf("input image does not exist: %s", orderImage)
	}
	if orderBoxes == "" && orderDetectCmd == "" {
		return fmt.Errorf("either --boxes or --detect-cmd is required")
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if orderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, orderTimeout)
		defer cancel()
	}

	processor := panelreader.Open(orderImage).WithOptions(opts)
	if orderDetectCmd != "" {
		processor = processor.DetectCommand(orderDetectCmd)
	} else {
		processor = processor.BoxesFile(orderBoxes)
	}

	result, err := processor.Order(ctx)
	if err != nil {
		return err
	}

	if orderHTML != "" {
		if err := report.WriteHTMLFile(orderHTML, result, orderImage); err != nil {
			return fmt.Errorf("writing HTML overlay: %w", err)
		}
	}

	if orderOut != "" {
		return report.WriteJSONFile(orderOut, result)
	}
	return report.WriteJSON(os.Stdout, result)
}
