package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "hire-pipeline"
	envPrefix = "HIRE_PIPELINE"
)

type Config struct {
	API    *APIConfig    `mapstructure:"api"`
	Board  *BoardConfig  `mapstructure:"board"`
	AI     *AIConfig     `mapstructure:"ai"`
	Server *ServerConfig `mapstructure:"server"`
}

type APIConfig struct {
	URL       string `mapstructure:"url"`
	Token     string `mapstructure:"token"`
	TokenEnv  string `mapstructure:"token-env"`
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
	// Timeout bounds every single request to the recruiting backend.
	Timeout time.Duration `mapstructure:"timeout"`
	// Concurrency caps in-flight per-interview requests while loading a candidate.
	Concurrency int `mapstructure:"concurrency"`
}

type BoardConfig struct {
	Statuses        []string `mapstructure:"statuses"`
	Jobs            []int64  `mapstructure:"jobs"`
	IncludeClosed   bool     `mapstructure:"include-closed"`
	HireRecommended bool     `mapstructure:"hire-recommended"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyEnv    string `mapstructure:"api-key-env"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"cors-origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hire-pipeline shows where candidates stand in the hiring pipeline and moves them forward",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hire-pipeline.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "recruiting backend base url")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api-url"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.token-env", envPrefix+"_TOKEN")
	v.SetDefault("api.token-file", "")
	v.SetDefault("api.user-agent", "")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.concurrency", 4)

	v.SetDefault("board.statuses", []string{})
	v.SetDefault("board.jobs", []int64{})
	v.SetDefault("board.include-closed", false)
	v.SetDefault("board.hire-recommended", false)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-env", "GEMINI_API_KEY")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors-origins", []string{})
	v.SetDefault("server.shutdown-timeout", 10*time.Second)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("api.token-file", envPrefix+"_TOKEN_FILE", envPrefix+"_API_TOKEN_FILE"); err != nil {
		log.Fatalf("binding %s_TOKEN_FILE environment variable: %v", envPrefix, err)
	}
}

func initConfig() {
	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
