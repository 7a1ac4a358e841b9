package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/scanprep"
)

var downloadCmd = &cobra.Command{
	Use:   "download [source-dir] [target-dir]",
	Short: "Download the scanned images for a directory of page XML files",
	Long: `Resolves the scan image for every page XML file in the source directory
and downloads it to the target directory. Images are located through the
archive's EAD finding aid and the per-volume METS manifests; the finding
aid itself is downloaded on first use.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	source := cfg.Download.SourceDir
	target := cfg.Download.TargetDir
	if len(args) > 0 {
		source = args[0]
	}
	if len(args) > 1 {
		target = args[1]
	}
	if source == "" || target == "" {
		return fmt.Errorf("source and target directories required (arguments or download.source_dir/target_dir)")
	}

	downloader := scanprep.Fetch(source, target).
		ArchiveCode(cfg.Download.ArchiveCode).
		Logger(logger)
	if cfg.Download.FindingAid != "" {
		downloader.FindingAid(cfg.Download.FindingAid)
	}
	if cfg.Download.FindingAidURL != "" {
		downloader.FindingAidURL(cfg.Download.FindingAidURL)
	}
	if cfg.Download.KeepManifests {
		downloader.KeepManifests()
	}

	report, err := downloader.Run(cmd.Context())
	if err != nil {
		return err
	}

	for _, warning := range report.Warnings {
		logger.Warn(warning)
	}
	logger.Info("download complete",
		"renamed", report.Renamed,
		"fetched", report.Fetched,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return nil
}
