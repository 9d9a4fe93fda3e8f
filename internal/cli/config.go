package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "CRUDKIT"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyListen      = "listen"
	cfgKeyAPIVersions = "api_versions"
	cfgKeyPageLimit   = "page_limit"
	cfgKeyListLimit   = "list_limit"
	cfgKeySoftDelete  = "soft_delete"
	cfgKeyVerbose     = "verbose"

	defaultListen = "127.0.0.1:8080"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# crudkit configuration

# Storage backend: sqlite or memory
backend: sqlite

# Data directory (optional; overridable by --data-dir and CRUDKIT_DATA_DIR)
# data_dir:

# HTTP listen address for "crudkit serve"
listen: 127.0.0.1:8080

# API versions mounted as /v{version}/...
api_versions: ["1"]

# Page size used when a page request carries no limit
page_limit: 300

# Maximum number of entities returned by a list; 0 means no cap
list_limit: 0

# Mark deleted rows instead of removing them (sqlite only)
soft_delete: false

verbose: false
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// Settings may be overridden with CRUDKIT_* environment variables.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetDefault(cfgKeyAPIVersions, []string{"1"})
	v.SetDefault(cfgKeyPageLimit, types.DefaultPageLimit)
	v.SetDefault(cfgKeyListLimit, 0)
	v.SetDefault(cfgKeySoftDelete, false)
	v.SetDefault(cfgKeyVerbose, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// decodeConfig maps viper settings to a types.Config.
func decodeConfig(v *viper.Viper) types.Config {
	return types.Config{
		Backend:     v.GetString(cfgKeyBackend),
		DataDir:     v.GetString(cfgKeyDataDir),
		Listen:      v.GetString(cfgKeyListen),
		APIVersions: v.GetStringSlice(cfgKeyAPIVersions),
		PageLimit:   v.GetInt(cfgKeyPageLimit),
		ListLimit:   v.GetInt(cfgKeyListLimit),
		SoftDelete:  v.GetBool(cfgKeySoftDelete),
		Verbose:     v.GetBool(cfgKeyVerbose),
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.config)
			if err != nil {
				return sysError(fmt.Errorf("marshal config: %w", err))
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
