package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/scanprep/imagemeta"
	"github.com/tsawler/scanprep/ocr"
)

var verifyOCR bool

var verifyCmd = &cobra.Command{
	Use:   "verify [image-dir]",
	Short: "Verify that downloaded page images are readable",
	Long: `Checks every image in the directory: that the file starts with a known
image signature and decodes to sensible dimensions. With --ocr (requires a
binary built with the ocr tag) each image is additionally run through
Tesseract to confirm it contains recognizable text.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyOCR, "ocr", false, "run OCR on each image to confirm it has text")
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := args[0]

	var ocrClient *ocr.Client
	if verifyOCR {
		client, err := ocr.New()
		if err != nil {
			if errors.Is(err, ocr.ErrOCRNotEnabled) {
				return err
			}
			return fmt.Errorf("starting OCR: %w", err)
		}
		defer client.Close()
		ocrClient = client
	}

	patterns := []string{"*.jpg", "*.jpeg", "*.png", "*.tif", "*.tiff"}
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	bad := 0
	for _, path := range files {
		if err := verifyImage(path, ocrClient); err != nil {
			logger.Warn("broken image", "file", path, "error", err)
			bad++
			continue
		}
		logger.Debug("ok", "file", path)
	}

	logger.Info("verification complete", "images", len(files), "broken", bad)
	if bad > 0 {
		return fmt.Errorf("%d of %d images failed verification", bad, len(files))
	}
	return nil
}

func verifyImage(path string, ocrClient *ocr.Client) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !imagemeta.IsImage(data) {
		return fmt.Errorf("not a known image format")
	}

	width, height, err := imagemeta.Size(path)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("degenerate dimensions %dx%d", width, height)
	}

	if ocrClient != nil {
		hasText, err := ocrClient.HasText(data)
		if err != nil {
			return fmt.Errorf("ocr: %w", err)
		}
		if !hasText {
			return fmt.Errorf("no recognizable text")
		}
	}
	return nil
}
