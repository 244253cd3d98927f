package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/adapter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "aac-doc"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName       = "output"
	parentReqsFlagName   = "parent-reqs"
	verboseFlagName      = "verbose"
	markdownOnlyFlagName = "markdown-only"
	contentOnlyFlagName  = "content-only"
	temperatureFlagName  = "temperature"
	addrFlagName         = "addr"

	outlineTemperatureKey = "outline.temperature"
	draftTemperatureKey   = "draft.temperature"
	previewAddrKey        = "preview.addr"

	defaultOutputDir          = "."
	defaultParentReqs         = false
	defaultOutlineTemperature = 0.1
	defaultDraftTemperature   = 0.2
	defaultPreviewAddr        = "127.0.0.1:8080"

	aiURLKey        = "ai.url"
	aiModelKey      = "ai.model"
	aiKeyKey        = "ai.key"
	aiTypeKey       = "ai.type"
	aiAPIVersionKey = "ai.api_version"
	aiHTTPProxyKey  = "ai.http_proxy"
	aiHTTPSProxyKey = "ai.https_proxy"
	aiSSLVerifyKey  = "ai.ssl_verify"
	aiTimeoutKey    = "ai.timeout"
	aiMaxRetriesKey = "ai.max_retries"

	defaultAISSLVerify  = true
	defaultAITimeout    = 2 * time.Minute
	defaultAIMaxRetries = 3

	envPrefix = "AAC"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".aac-doc.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(parentReqsFlagName, defaultParentReqs)
	viper.SetDefault(outlineTemperatureKey, defaultOutlineTemperature)
	viper.SetDefault(draftTemperatureKey, defaultDraftTemperature)
	viper.SetDefault(previewAddrKey, defaultPreviewAddr)

	// The AAC_AI_* environment variables map onto these keys.
	viper.SetDefault(aiURLKey, "")
	viper.SetDefault(aiModelKey, "")
	viper.SetDefault(aiKeyKey, "")
	viper.SetDefault(aiTypeKey, "")
	viper.SetDefault(aiAPIVersionKey, "")
	viper.SetDefault(aiHTTPProxyKey, "")
	viper.SetDefault(aiHTTPSProxyKey, "")
	viper.SetDefault(aiSSLVerifyKey, defaultAISSLVerify)
	viper.SetDefault(aiTimeoutKey, defaultAITimeout.String())
	viper.SetDefault(aiMaxRetriesKey, defaultAIMaxRetries)

	// Proxy and TLS settings also answer to their shorter AAC_* names.
	for key, legacy := range map[string]string{
		aiHTTPProxyKey:  "AAC_HTTP_PROXY",
		aiHTTPSProxyKey: "AAC_HTTPS_PROXY",
		aiSSLVerifyKey:  "AAC_SSL_VERIFY",
	} {
		cobra.CheckErr(viper.BindEnv(key, envKey(key), legacy))
	}

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// envKey returns the prefixed environment variable AutomaticEnv would use for key.
func envKey(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

// chatSettings collects the AI service settings from config and environment.
func chatSettings() adapter.ChatSettings {
	return adapter.ChatSettings{
		URL:        viper.GetString(aiURLKey),
		Model:      viper.GetString(aiModelKey),
		Key:        viper.GetString(aiKeyKey),
		Type:       viper.GetString(aiTypeKey),
		APIVersion: viper.GetString(aiAPIVersionKey),
		HTTPProxy:  viper.GetString(aiHTTPProxyKey),
		HTTPSProxy: viper.GetString(aiHTTPSProxyKey),
		SSLVerify:  viper.GetBool(aiSSLVerifyKey),
		Timeout:    viper.GetDuration(aiTimeoutKey),
		MaxRetries: viper.GetInt(aiMaxRetriesKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
