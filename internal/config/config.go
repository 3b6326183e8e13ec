package config

import (
	"time"

	"github.com/tayodev/snapback/internal/log"
	"github.com/tayodev/snapback/internal/reporting/json"
	"github.com/tayodev/snapback/internal/reporting/text"
)

type Config struct {
	Settings   SettingsConfig   `yaml:"settings"`
	Snapshots  SnapshotsConfig  `yaml:"snapshots"`
	AWS        AWSConfig        `yaml:"aws"`
	Protection ProtectionConfig `yaml:"protection"`
	Restore    RestoreConfig    `yaml:"restore"`
	Audit      AuditConfig      `yaml:"audit"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `yaml:"log_level"`
	LogFormat    log.Format      `yaml:"log_format"`
	ReporterType string          `yaml:"reporter" validate:"oneof=text json"`
	Reporter     ReporterConfigs `yaml:"reporter_config"`
}

type ReporterConfigs struct {
	Text *text.Config `yaml:"text,omitempty"`
	JSON *json.Config `yaml:"json,omitempty"`
}

type SnapshotsConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

type AWSConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
	APIRPS  int    `yaml:"api_rps" validate:"gte=0,lte=100"`
}

// ProtectionConfig drives the ordered protection rules. Rule order is fixed:
// tag override, type blocklist, minimum age, cost ceiling, then custom
// expressions in file order.
type ProtectionConfig struct {
	OverrideTagKeys []string         `yaml:"override_tag_keys"`
	BlockedTypes    []string         `yaml:"blocked_types"`
	MinimumAgeDays  int              `yaml:"minimum_age_days" validate:"gte=0"`
	CostCeiling     string           `yaml:"cost_ceiling"`
	CustomRules     []CustomRule     `yaml:"custom_rules" validate:"dive"`
}

// CustomRule is an expression over the resource's type, name, region, tags,
// age and monthly cost; a rule evaluating true protects the resource.
type CustomRule struct {
	ID         string `yaml:"id" validate:"required"`
	Expression string `yaml:"expression" validate:"required"`
}

type RestoreConfig struct {
	WorkersPerTier int           `yaml:"workers_per_tier" validate:"gte=0,lte=64"`
	PrepareTimeout time.Duration `yaml:"prepare_timeout"`
	AwaitTimeout   time.Duration `yaml:"await_timeout"`
}

type AuditConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			ReporterType: text.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Snapshots: SnapshotsConfig{Dir: "snapshots"},
		AWS:       AWSConfig{APIRPS: 10},
		Protection: ProtectionConfig{
			OverrideTagKeys: []string{"snapback:preserve", "do-not-delete"},
			MinimumAgeDays:  0,
		},
		Restore: RestoreConfig{
			WorkersPerTier: 5,
			PrepareTimeout: 2 * time.Minute,
			AwaitTimeout:   5 * time.Minute,
		},
		Audit: AuditConfig{Dir: "audit"},
	}
}
