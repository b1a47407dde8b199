package config

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

// PipelineConfig - Settings for a single format pipeline
type PipelineConfig struct {
	Skip        bool   `yaml:"skip"`
	URL         string `yaml:"url"`
	File        string `yaml:"file"`
	Report      string `yaml:"report"` // Defaults to <file base>_summary.txt
	ContentType string `yaml:"content_type"`
	Readable    bool   `yaml:"readable"` // Convert HTML bodies to readable markdown (text only)
}

// Config - Application configuration
type Config struct {
	Log struct {
		Debug bool   `yaml:"debug" default:"false" env:"LOG_DEBUG"`
		Path  string `yaml:"path" env:"LOG_PATH"` // Empty means stderr
	} `yaml:"log"`

	Fetch struct {
		Timeout   int    `yaml:"timeout" default:"0" env:"FETCH_TIMEOUT"` // Timeout in seconds, 0 keeps the client default
		UserAgent string `yaml:"user_agent" default:"fetch-analytics/1.0" env:"FETCH_USER_AGENT"`
	} `yaml:"fetch"`

	Data struct {
		Folder string `yaml:"folder" default:"data" env:"DATA_FOLDER"`
	} `yaml:"data"`

	Pipelines struct {
		Text        PipelineConfig `yaml:"text"`
		CSV         PipelineConfig `yaml:"csv"`
		Spreadsheet PipelineConfig `yaml:"spreadsheet"`
		JSON        PipelineConfig `yaml:"json"`
	} `yaml:"pipelines"`

	Metrics struct {
		Textfile string `yaml:"textfile" env:"METRICS_TEXTFILE"` // Prometheus textfile output, empty disables
	} `yaml:"metrics"`

	Archive struct {
		Bucket   string `yaml:"bucket" env:"ARCHIVE_BUCKET"` // Empty disables archiving
		Prefix   string `yaml:"prefix" default:"fetch-analytics" env:"ARCHIVE_PREFIX"`
		Region   string `yaml:"region" env:"ARCHIVE_REGION"`
		Endpoint string `yaml:"endpoint" env:"ARCHIVE_ENDPOINT"`
	} `yaml:"archive"`

	Setup struct {
		StartYear int      `yaml:"start_year" default:"2020"`
		EndYear   int      `yaml:"end_year" default:"2025"`
		Folders   []string `yaml:"folders"`
		Prefix    string   `yaml:"prefix" default:"data-"`
		Prefixed  []string `yaml:"prefixed"`
	} `yaml:"setup"`

	Profile Profile `yaml:"profile"`
}

// Profile - Constant business profile printed by the byline command
type Profile struct {
	Name                  string    `yaml:"name" default:"Elias Analytics"`
	Tagline               string    `yaml:"tagline" default:"Turning Complex Data into Clear Insights"`
	HasInternational      bool      `yaml:"has_international_clients" default:"true"`
	YearsInOperation      int       `yaml:"years_in_operation" default:"10"`
	Skills                []string  `yaml:"skills"`
	SatisfactionScores    []float64 `yaml:"satisfaction_scores"`
	AcceptingNewClients   bool      `yaml:"accepting_new_clients" default:"true"`
	ConsultingPackages    int       `yaml:"consulting_packages" default:"3"`
	Tools                 []string  `yaml:"tools"`
	DailyTemps            []float64 `yaml:"daily_temps"`
	DailyTempsDescription string    `yaml:"daily_temps_description" default:"Daily Temp Highs in Denver"`
}

// LoadConfig - Load configuration file
func LoadConfig(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := configor.New(&configor.Config{
		Debug:      false,
		Verbose:    false,
		Silent:     true,
		AutoReload: false,
	}).Load(cfg, configFiles(path)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	_ = configor.New(&configor.Config{Silent: true}).Load(cfg)
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills values configor cannot express through struct tags.
func (c *Config) ApplyDefaults() {
	p := &c.Pipelines
	if p.Text.URL == "" {
		p.Text.URL = "https://www.gutenberg.org/ebooks/1112.txt.utf-8"
	}
	if p.Text.File == "" {
		p.Text.File = "example_text.txt"
	}
	if p.CSV.File == "" {
		p.CSV.File = "example_data.csv"
	}
	if p.Spreadsheet.File == "" {
		p.Spreadsheet.File = "example_data.xlsx"
	}
	if p.JSON.File == "" {
		p.JSON.File = "example_data.json"
	}
	if p.JSON.ContentType == "" {
		p.JSON.ContentType = "application/json"
	}

	if len(c.Setup.Folders) == 0 {
		c.Setup.Folders = []string{"North America", "South America", "Europe", "Asia", "Africa", "Oceania", "Middle East"}
	}
	if len(c.Setup.Prefixed) == 0 {
		c.Setup.Prefixed = []string{"csv", "excel", "json", "xml"}
	}

	pr := &c.Profile
	if len(pr.Skills) == 0 {
		pr.Skills = []string{"Data Analysis", "Machine Learning", "Business Intelligence"}
	}
	if len(pr.SatisfactionScores) == 0 {
		pr.SatisfactionScores = []float64{4.8, 4.6, 4.9, 5.0, 4.7}
	}
	if len(pr.Tools) == 0 {
		pr.Tools = []string{"Python", "Github", "mySQL", "Tableau", "Microsoft Power BI"}
	}
	if len(pr.DailyTemps) == 0 {
		pr.DailyTemps = []float64{95, 93, 88, 86, 90, 90}
	}
}

func configFiles(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return errors.Wrap(err, "failed to load .env")
		}
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env != "" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return errors.Wrapf(err, "failed to load %s", envFile)
			}
		}
	}

	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return errors.Wrap(err, "failed to load .env.local")
		}
	}
	return nil
}
