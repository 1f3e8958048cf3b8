package curator

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds curation batch settings.
type Config struct {
	SentencesPath string `yaml:"sentences_path" env:"CURATOR_SENTENCES_PATH"`
	LinksPath     string `yaml:"links_path"     env:"CURATOR_LINKS_PATH"`
	SourceLang    string `yaml:"source_lang"    env:"CURATOR_SOURCE_LANG"    env-default:"jpn"`
	TargetLang    string `yaml:"target_lang"    env:"CURATOR_TARGET_LANG"    env-default:"eng"`

	MaxPerSense int    `yaml:"max_per_sense" env:"CURATOR_MAX_PER_SENSE" env-default:"3"`
	LinkPolicy  string `yaml:"link_policy"   env:"CURATOR_LINK_POLICY"   env-default:"first"`

	Workers       int  `yaml:"workers"         env:"CURATOR_WORKERS"         env-default:"4"`
	ListBatchSize int  `yaml:"list_batch_size" env:"CURATOR_LIST_BATCH_SIZE" env-default:"1000"`
	MaxEntries    int  `yaml:"max_entries"     env:"CURATOR_MAX_ENTRIES"`
	ProgressEvery int  `yaml:"progress_every"  env:"CURATOR_PROGRESS_EVERY"  env-default:"1000"`
	DryRun        bool `yaml:"dry_run"         env:"CURATOR_DRY_RUN"`
}

// LoadConfig reads curator configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("curator config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("curator config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("curator config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("curator config: %w", err)
	}

	return &cfg, nil
}

// Validate checks settings the batch cannot run without.
func (c *Config) Validate() error {
	if c.SentencesPath == "" {
		return fmt.Errorf("sentences_path is required")
	}
	if c.LinksPath == "" {
		return fmt.Errorf("links_path is required")
	}
	if c.SourceLang == c.TargetLang {
		return fmt.Errorf("source_lang and target_lang must differ (got %q)", c.SourceLang)
	}
	if _, err := ParseLinkPolicy(c.LinkPolicy); err != nil {
		return err
	}
	if c.MaxPerSense < 0 {
		return fmt.Errorf("max_per_sense must be >= 0 (got %d)", c.MaxPerSense)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.ListBatchSize <= 0 {
		return fmt.Errorf("list_batch_size must be > 0 (got %d)", c.ListBatchSize)
	}
	return nil
}
