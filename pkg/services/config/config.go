package config

import (
	"fmt"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/services/mapping"
	"github.com/spf13/viper"
)

// HistoricalEntry is one prior-period reference row of the configuration
// file.
type HistoricalEntry struct {
	Specialty     string   `mapstructure:"specialty"`
	Period        string   `mapstructure:"period"`
	ValidatedRate *float64 `mapstructure:"validated_rate"`
	J0Rate        *float64 `mapstructure:"j0_rate"`
	DiffusedRate  *float64 `mapstructure:"diffused_rate"`
}

type thresholdsConfig struct {
	Excellent float64 `mapstructure:"excellent"`
	Good      float64 `mapstructure:"good"`
	Medium    float64 `mapstructure:"medium"`
}

// AppConfig is the full application configuration, loaded from a single YAML
// file. CredentialsPath points to the ini file holding the database profiles.
type AppConfig struct {
	MappingPath     string            `mapstructure:"mapping_path"`
	CredentialsPath string            `mapstructure:"credentials_path"`
	ExcludedUnits   []string          `mapstructure:"excluded_units"`
	Holidays        []string          `mapstructure:"holidays"`
	Thresholds      *thresholdsConfig `mapstructure:"thresholds"`
	Historical      []HistoricalEntry `mapstructure:"historical"`

	Email EmailConfig `mapstructure:"email"`
}

// EmailConfig configures the monthly report mail. Recipients empty disables
// sending.
type EmailConfig struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
}

func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MappingPath == "" {
		return nil, fmt.Errorf("mapping_path is required")
	}
	if _, err := cfg.HolidayDates(); err != nil {
		return nil, err
	}
	if err := cfg.IndicatorThresholds().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IndicatorThresholds returns the configured thresholds, or the decree
// defaults when the section is absent.
func (c *AppConfig) IndicatorThresholds() domain.Thresholds {
	if c.Thresholds == nil {
		return domain.DefaultThresholds()
	}
	return domain.Thresholds{
		Excellent: c.Thresholds.Excellent,
		Good:      c.Thresholds.Good,
		Medium:    c.Thresholds.Medium,
	}
}

// HolidayDates parses the configured holiday list (YYYY-MM-DD).
func (c *AppConfig) HolidayDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.Holidays))
	for _, raw := range c.Holidays {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// HistoricalRefs indexes the reference entries by normalized specialty name,
// so config entries join the pipeline rows however they are accented or
// cased.
func (c *AppConfig) HistoricalRefs() map[string]domain.HistoricalRef {
	refs := make(map[string]domain.HistoricalRef, len(c.Historical))
	for _, e := range c.Historical {
		refs[mapping.Normalize(e.Specialty)] = domain.HistoricalRef{
			Period:        e.Period,
			ValidatedRate: e.ValidatedRate,
			J0Rate:        e.J0Rate,
			DiffusedRate:  e.DiffusedRate,
		}
	}
	return refs
}
