package util

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const mgmtSecretLen = 16

func init() {
	// ENV lookups go through viper so that cobra flags bound via BindFlag win over ENV.
	viper.AutomaticEnv()
}

// BindFlag lets a command line flag override the ENV variable key.
func BindFlag(key string, f *pflag.Flag) {
	if f == nil {
		return
	}
	if err := viper.BindPFlag(key, f); err != nil {
		log.Panic().Err(err).Str("key", key).Msg("Failed to bind flag")
	}
}

// GetEnv returns the value of key from flags or ENV, or defaultVal if unset or empty.
func GetEnv(key string, defaultVal string) string {
	if viper.IsSet(key) {
		if value := viper.GetString(key); value != "" {
			return value
		}
	}

	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultVal
	}

	value, err := cast.ToIntE(raw)
	if err != nil {
		return defaultVal
	}

	return value
}

func GetEnvAsUint64(key string, defaultVal uint64) uint64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultVal
	}

	value, err := cast.ToUint64E(raw)
	if err != nil {
		return defaultVal
	}

	return value
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultVal
	}

	value, err := cast.ToBoolE(raw)
	if err != nil {
		return defaultVal
	}

	return value
}

// GetEnvAsStringArr reads a separator delimited list, e.g. "a,b,c".
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultVal
	}

	sep := ","
	if len(separator) >= 1 {
		sep = separator[0]
	}

	return strings.Split(raw, sep)
}

// GetMgmtSecret returns the management secret from ENV or a random one per process.
func GetMgmtSecret(envKey string) string {
	if secret := GetEnv(envKey, ""); secret != "" {
		return secret
	}

	buf := make([]byte, mgmtSecretLen)
	if _, err := rand.Read(buf); err != nil {
		log.Panic().Err(err).Msg("Failed to generate management secret")
	}

	return hex.EncodeToString(buf)
}

// LogLevelFromString parses a zerolog level and falls back to debug.
func LogLevelFromString(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		log.Error().Err(err).Str("level", s).Msg("Failed to parse log level, defaulting to debug")
		return zerolog.DebugLevel
	}

	return level
}

// RunningInTest reports whether the process is a go test binary.
func RunningInTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test")
}
