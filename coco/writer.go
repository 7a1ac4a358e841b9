package coco

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write writes the dataset to a JSON file.
func (d *Dataset) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteTo encodes the dataset as JSON to a writer.
func (d *Dataset) WriteTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(d)
}

// Read reads a dataset from a JSON file.
func Read(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &d, nil
}

// TrainValPaths derives the train and val file paths from the combined
// annotation path: "annotations.json" becomes "annotations-train.json" and
// "annotations-val.json".
func TrainValPaths(path string) (train, val string) {
	base := strings.TrimSuffix(path, ".json")
	return base + "-train.json", base + "-val.json"
}
