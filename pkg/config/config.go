/*
Package config manages TOML configuration for fuzzgram's search defaults
and corpus builder tuning. The core library itself never touches the
filesystem; only cmd/fuzzgram loads a Config, to seed the default
search/build parameters it hands to the library and the service package.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fuzzgram/fuzzgram/internal/utils"
)

// Config holds the entire configuration structure.
type Config struct {
	Search  SearchConfig  `toml:"search"`
	TFIDF   TFIDFConfig   `toml:"tfidf"`
	Builder BuilderConfig `toml:"builder"`
}

// SearchConfig mirrors search.NgramSearchConfig's tunables.
type SearchConfig struct {
	Warp              float64 `toml:"warp"`
	MinimumSimilarity float64 `toml:"minimum_similarity"`
	MaximumResults    int     `toml:"maximum_results"`
	MaxNgramDegree    int     `toml:"max_ngram_degree"` // -1 unbounded, 0 use default heuristic, >0 explicit cap
}

// TFIDFConfig holds the Okapi BM25 constants layered on top of
// SearchConfig.
type TFIDFConfig struct {
	K1 float64 `toml:"k1"`
	B  float64 `toml:"b"`
}

// BuilderConfig holds corpus-build tuning: gram arity, element type, and
// parallelism.
type BuilderConfig struct {
	Arity       int    `toml:"arity"`
	Element     string `toml:"element"` // "char", "ascii", "byte"
	UseTrieKeys bool   `toml:"use_trie_keys"`
	Workers     int    `toml:"workers"` // 0 means runtime.GOMAXPROCS(0)
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/fuzzgram
// 2. ~/Library/Application Support/fuzzgram (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "fuzzgram")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "fuzzgram")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/fuzzgram/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values matching
// search.DefaultNgramSearchConfig/DefaultTFIDFSearchConfig.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Warp:              2.0,
			MinimumSimilarity: 0.3,
			MaximumResults:    10,
			MaxNgramDegree:    0,
		},
		TFIDF: TFIDFConfig{
			K1: 1.2,
			B:  0.75,
		},
		Builder: BuilderConfig{
			Arity:       3,
			Element:     "char",
			UseTrieKeys: false,
			Workers:     0,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to recover whatever sections of a TOML file
// parse cleanly, falling back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if searchSection, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(searchSection, &config.Search)
	}
	if tfidfSection, ok := utils.ExtractSection(tempConfig, "tfidf"); ok {
		extractTFIDFConfig(tfidfSection, &config.TFIDF)
	}
	if builderSection, ok := utils.ExtractSection(tempConfig, "builder"); ok {
		extractBuilderConfig(builderSection, &config.Builder)
	}
	return config, nil
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractFloat64(data, "warp"); ok {
		search.Warp = val
	}
	if val, ok := utils.ExtractFloat64(data, "minimum_similarity"); ok {
		search.MinimumSimilarity = val
	}
	if val, ok := utils.ExtractInt64(data, "maximum_results"); ok {
		search.MaximumResults = val
	}
	if val, ok := utils.ExtractInt64(data, "max_ngram_degree"); ok {
		search.MaxNgramDegree = val
	}
}

func extractTFIDFConfig(data map[string]any, tfidf *TFIDFConfig) {
	if val, ok := utils.ExtractFloat64(data, "k1"); ok {
		tfidf.K1 = val
	}
	if val, ok := utils.ExtractFloat64(data, "b"); ok {
		tfidf.B = val
	}
}

func extractBuilderConfig(data map[string]any, builder *BuilderConfig) {
	if val, ok := utils.ExtractInt64(data, "arity"); ok {
		builder.Arity = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		builder.Workers = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves config into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
