// Package config loads zythc's project configuration: optimization level,
// target triple, cache directory, and log settings, layered flag > env >
// config file > default, the way `_examples/gooze-dev-gooze/cmd/config.go`
// wires viper for its own CLI.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	baseName   = "zyth"
	fileName   = baseName + ".yaml"
	folderPath = "."

	envPrefix = "ZYTH"

	OutputKey    = "output"
	OptLevelKey  = "opt-level"
	TargetKey    = "target"
	VerboseKey   = "verbose"
	DebugKey     = "debug"
	CacheDirKey  = "cache-dir"
	NoCacheKey   = "no-cache"

	LogFilenameKey   = "log.filename"
	LogLevelKey      = "log.level"
	LogMaxSizeKey    = "log.max_size"
	LogMaxBackupsKey = "log.max_backups"
	LogMaxAgeKey     = "log.max_age"
	LogCompressKey   = "log.compress"

	DefaultCacheDir     = ".zyth-cache"
	DefaultOptLevel     = 2
	DefaultTarget       = "amd64"
	DefaultLogFilename  = ".zyth.log"
	DefaultLogLevel     = "info"
	DefaultLogMaxSize   = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge    = 28
	DefaultLogCompress  = true
)

// Config is the fully resolved set of knobs the build orchestrator and CLI
// consult, per SPEC_FULL.md §6.1.
type Config struct {
	Output   string
	OptLevel int
	Target   string
	Verbose  bool
	Debug    bool
	CacheDir string
	NoCache  bool

	LogFilename   string
	LogLevel      string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// Init registers defaults and reads zyth.yaml from the working directory, if
// present. A missing config file is not an error: defaults and environment
// variables (ZYTH_*) still apply.
func Init(v *viper.Viper) error {
	v.SetConfigName(baseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(folderPath)
	v.SetConfigFile(filepath.Join(folderPath, fileName))
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault(OutputKey, "")
	v.SetDefault(OptLevelKey, DefaultOptLevel)
	v.SetDefault(TargetKey, DefaultTarget)
	v.SetDefault(VerboseKey, false)
	v.SetDefault(DebugKey, false)
	v.SetDefault(CacheDirKey, DefaultCacheDir)
	v.SetDefault(NoCacheKey, false)

	v.SetDefault(LogFilenameKey, DefaultLogFilename)
	v.SetDefault(LogLevelKey, DefaultLogLevel)
	v.SetDefault(LogMaxSizeKey, DefaultLogMaxSize)
	v.SetDefault(LogMaxBackupsKey, DefaultLogMaxBackups)
	v.SetDefault(LogMaxAgeKey, DefaultLogMaxAge)
	v.SetDefault(LogCompressKey, DefaultLogCompress)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// BindFlag wires a cobra/pflag flag to a viper key so config file and
// environment values feed the flag's default.
func BindFlag(v *viper.Viper, flag *pflag.Flag, key string) error {
	if flag == nil {
		return errors.New("config: flag for key " + key + " not found")
	}
	return v.BindPFlag(key, flag)
}

// Load reads every bound key back out of v into a Config value.
func Load(v *viper.Viper) Config {
	return Config{
		Output:   v.GetString(OutputKey),
		OptLevel: v.GetInt(OptLevelKey),
		Target:   v.GetString(TargetKey),
		Verbose:  v.GetBool(VerboseKey),
		Debug:    v.GetBool(DebugKey),
		CacheDir: v.GetString(CacheDirKey),
		NoCache:  v.GetBool(NoCacheKey),

		LogFilename:   v.GetString(LogFilenameKey),
		LogLevel:      v.GetString(LogLevelKey),
		LogMaxSize:    v.GetInt(LogMaxSizeKey),
		LogMaxBackups: v.GetInt(LogMaxBackupsKey),
		LogMaxAge:     v.GetInt(LogMaxAgeKey),
		LogCompress:   v.GetBool(LogCompressKey),
	}
}
