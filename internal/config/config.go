// Package config loads and validates the consolidator's YAML
// configuration: enabled sources and their base paths, the project
// name used for workspace matching, cycle cadence, the dedup ceiling,
// and tier thresholds. Any invalid value is a Configuration-error
// (spec §7): fatal at startup, never recoverable at cycle time.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// SourceConfig describes one enabled source and its base path.
type SourceConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BasePath string `yaml:"basePath"`
}

// TierThresholds holds the age boundaries (in days) between tiers.
// recent: [0, Medium); medium: [Medium, Old); old: [Old, Archive);
// archive: [Archive, inf).
type TierThresholds struct {
	MediumDays  int `yaml:"mediumDays"`
	OldDays     int `yaml:"oldDays"`
	ArchiveDays int `yaml:"archiveDays"`
}

// DefaultTierThresholds matches spec §3: recent 0–7d, medium 7–30d,
// old 30–90d, archive ≥90d.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{MediumDays: 7, OldDays: 30, ArchiveDays: 90}
}

// Config is the full consolidator configuration.
type Config struct {
	OutputRoot   string          `yaml:"outputRoot"`
	ProjectName  string          `yaml:"projectName"`
	CycleSeconds int             `yaml:"cycleSeconds"`
	DedupCeiling int             `yaml:"dedupCeiling"`
	Tiers        TierThresholds  `yaml:"tiers"`
	MaxExportMiB int             `yaml:"maxExportMiB"`

	KVStore    SourceConfig `yaml:"kvStore"`
	SQLiteApp  SourceConfig `yaml:"sqliteApp"`
	JSONLLog   SourceConfig `yaml:"jsonlLog"`
	JSONExport SourceConfig `yaml:"jsonExport"`
}

// DefaultConfig returns sensible defaults, matching spec §4.8 and §5.
func DefaultConfig() Config {
	return Config{
		CycleSeconds: 300,
		DedupCeiling: 1_000_000,
		Tiers:        DefaultTierThresholds(),
		MaxExportMiB: 64,
	}
}

// Load reads and validates a YAML config file at path.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &model.ConfigError{Field: "path", Reason: err.Error()}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &model.ConfigError{Field: "yaml", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces spec §7's Configuration-error conditions: ceiling
// must be positive, tier thresholds strictly ascending, every enabled
// source must carry a base path.
func (c Config) Validate() error {
	if c.DedupCeiling <= 0 {
		return &model.ConfigError{Field: "dedupCeiling", Reason: "must be > 0"}
	}
	if c.CycleSeconds <= 0 {
		return &model.ConfigError{Field: "cycleSeconds", Reason: "must be > 0"}
	}
	if c.OutputRoot == "" {
		return &model.ConfigError{Field: "outputRoot", Reason: "must be set"}
	}
	t := c.Tiers
	if !(0 < t.MediumDays && t.MediumDays < t.OldDays && t.OldDays < t.ArchiveDays) {
		return &model.ConfigError{Field: "tiers", Reason: "thresholds must be strictly ascending: 0 < medium < old < archive"}
	}
	if c.MaxExportMiB <= 0 {
		return &model.ConfigError{Field: "maxExportMiB", Reason: "must be > 0"}
	}

	sources := map[string]SourceConfig{
		"kvStore":    c.KVStore,
		"sqliteApp":  c.SQLiteApp,
		"jsonlLog":   c.JSONLLog,
		"jsonExport": c.JSONExport,
	}
	for name, sc := range sources {
		if sc.Enabled && sc.BasePath == "" {
			return &model.ConfigError{Field: name + ".basePath", Reason: "enabled source requires a base path"}
		}
	}
	return nil
}

// CycleInterval is CycleSeconds as a time.Duration.
func (c Config) CycleInterval() time.Duration {
	return time.Duration(c.CycleSeconds) * time.Second
}

// CronSpec renders the cadence as a robfig/cron "@every" expression,
// the form pkg/scheduler feeds to cron.ParseStandard-compatible parsing.
func (c Config) CronSpec() string {
	return "@every " + c.CycleInterval().String()
}
