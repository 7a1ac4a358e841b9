package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/scanprep"
)

var convertCmd = &cobra.Command{
	Use:   "convert [dataset-dir]",
	Short: "Convert PAGE XML table annotations to a COCO dataset",
	Long: `Reads every page annotation under the dataset's XML directory, derives
row and column outlines from the table cells, and writes a COCO annotation
file plus a deterministic train/val split.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	basePath := cfg.Dataset.BasePath
	if len(args) > 0 {
		basePath = args[0]
	}
	if basePath == "" {
		return fmt.Errorf("no dataset directory given (argument or dataset.base_path)")
	}

	converter := scanprep.Dataset(basePath).
		Annotations(cfg.Dataset.AnnotationsDir).
		Images(cfg.Dataset.ImagesDir).
		Info(cfg.cocoInfo()).
		SplitRatio(cfg.Split.Ratio).
		Seed(cfg.Split.Seed).
		SimplifyTolerance(cfg.Dataset.SimplifyTolerance)
	if cfg.Split.Disabled {
		converter.NoSplit()
	}

	logger.Info("converting annotations", "dataset", basePath, "output", cfg.Dataset.Output)

	report, err := converter.ConvertCOCO(cfg.Dataset.Output)
	if err != nil {
		return err
	}

	for _, warning := range report.Warnings {
		logger.Warn(warning)
	}
	logger.Info("conversion complete",
		"pages", report.Pages,
		"skipped", report.SkippedPages,
		"images", len(report.Dataset.Images),
		"annotations", len(report.Dataset.Annotations))
	if report.TrainPath != "" {
		logger.Info("split written", "train", report.TrainPath, "val", report.ValPath)
	}
	return nil
}
