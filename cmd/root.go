package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobhunter/internal/priority"
	"github.com/spigell/jobhunter/internal/scraper"
)

const (
	app       = "jobhunter"
	envPrefix = "JOBHUNTER"
)

type Config struct {
	JobsFile        string `mapstructure:"jobs-file"`
	PrioritizedFile string `mapstructure:"prioritized-file"`
	ProfileFile     string `mapstructure:"profile-file"`
	TrackerFile     string `mapstructure:"tracker-file"`
	ApplicationsDir string `mapstructure:"applications-dir"`
	ExcludeFile     string `mapstructure:"exclude-file"`

	Search   *SearchConfig  `mapstructure:"search"`
	Apply    *ApplyConfig   `mapstructure:"apply"`
	Keywords *KeywordConfig `mapstructure:"keywords"`
	Priority priority.Lists `mapstructure:"priority"`
	AI       *AIConfig      `mapstructure:"ai"`
	Server   *ServerConfig  `mapstructure:"server"`
}

type SearchConfig struct {
	Queries   []scraper.Query `mapstructure:"queries"`
	Sources   []string        `mapstructure:"sources"`
	Browser   bool            `mapstructure:"browser"`
	UserAgent string          `mapstructure:"user-agent"`
}

type ApplyConfig struct {
	MinScore int `mapstructure:"min-score"`
	Exclude  *struct {
		Companies []string `mapstructure:"companies"`
	} `mapstructure:"exclude"`
}

type KeywordConfig struct {
	Vocabulary []string `mapstructure:"vocabulary"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobhunter scrapes job boards, ranks postings and prepares tailored applications",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobhunter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("jobs-file", "jobs.json")
	viper.SetDefault("prioritized-file", "jobs_prioritized.json")
	viper.SetDefault("profile-file", "profile.json")
	viper.SetDefault("tracker-file", "applications.json")
	viper.SetDefault("applications-dir", "applications")
	viper.SetDefault("exclude-file", "")
	viper.SetDefault("server.addr", "127.0.0.1:5000")
	viper.SetDefault("ai.gemini.max-log-length", 500)

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
}

func initConfig() {
	// .env is optional; values already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must exist; the default one is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.Apply == nil {
		config.Apply = &ApplyConfig{}
	}

	return config, nil
}

func (c *Config) excludedCompanies() []string {
	if c.Apply == nil || c.Apply.Exclude == nil {
		return nil
	}
	return c.Apply.Exclude.Companies
}

func (c *Config) vocabulary() []string {
	if c.Keywords == nil {
		return nil
	}
	return c.Keywords.Vocabulary
}

func (c *Config) serverAddr() string {
	if c.Server == nil {
		return ""
	}
	return c.Server.Addr
}
