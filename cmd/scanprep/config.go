package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/scanprep"
	"github.com/tsawler/scanprep/coco"
)

// Config is the top-level configuration file.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Split    SplitConfig    `yaml:"split"`
	Download DownloadConfig `yaml:"download"`
}

// DatasetConfig holds conversion settings.
type DatasetConfig struct {
	BasePath          string     `yaml:"base_path"`
	AnnotationsDir    string     `yaml:"annotations_dir"`
	ImagesDir         string     `yaml:"images_dir"`
	Output            string     `yaml:"output"`
	SimplifyTolerance float64    `yaml:"simplify_tolerance"`
	Info              InfoConfig `yaml:"info"`
}

// InfoConfig describes the dataset in the COCO info block. Empty fields
// keep their defaults.
type InfoConfig struct {
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Year        int    `yaml:"year"`
	Contributor string `yaml:"contributor"`
	DateCreated string `yaml:"date_created"`
}

// SplitConfig holds train/val split settings.
type SplitConfig struct {
	Disabled bool    `yaml:"disabled"`
	Ratio    float64 `yaml:"ratio"`
	Seed     int64   `yaml:"seed"`
}

// DownloadConfig holds image download settings.
type DownloadConfig struct {
	SourceDir     string `yaml:"source_dir"`
	TargetDir     string `yaml:"target_dir"`
	ArchiveCode   string `yaml:"archive_code"`
	FindingAid    string `yaml:"finding_aid"`
	FindingAidURL string `yaml:"finding_aid_url"`
	KeepManifests bool   `yaml:"keep_manifests"`
}

// LoadConfig reads the configuration file and applies environment
// overrides. With an empty path the defaults are returned, so the tool
// runs without any configuration file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Dataset: DatasetConfig{
			AnnotationsDir: "XML",
			ImagesDir:      "Images",
			Output:         "annotations.json",
		},
		Split: SplitConfig{
			Ratio: coco.DefaultSplitRatio,
			Seed:  coco.DefaultSplitSeed,
		},
		Download: DownloadConfig{
			ArchiveCode: scanprep.DefaultArchiveCode,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets the environment override selected settings, so per-machine
// URLs and paths can live in a .env file instead of the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCANPREP_ARCHIVE_CODE"); v != "" {
		c.Download.ArchiveCode = v
	}
	if v := os.Getenv("SCANPREP_FINDING_AID"); v != "" {
		c.Download.FindingAid = v
	}
	if v := os.Getenv("SCANPREP_FINDING_AID_URL"); v != "" {
		c.Download.FindingAidURL = v
	}
	if v := os.Getenv("SCANPREP_SPLIT_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Split.Seed = seed
		}
	}
}

// cocoInfo merges the configured info fields over the defaults.
func (c *Config) cocoInfo() coco.Info {
	info := coco.DefaultInfo()
	if c.Dataset.Info.Description != "" {
		info.Description = c.Dataset.Info.Description
	}
	if c.Dataset.Info.Version != "" {
		info.Version = c.Dataset.Info.Version
	}
	if c.Dataset.Info.Year != 0 {
		info.Year = c.Dataset.Info.Year
	}
	if c.Dataset.Info.Contributor != "" {
		info.Contributor = c.Dataset.Info.Contributor
	}
	if c.Dataset.Info.DateCreated != "" {
		info.DateCreated = c.Dataset.Info.DateCreated
	}
	return info
}
