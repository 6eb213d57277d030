package config

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad forcefully overrides ENV variables through a .env file. A missing file is
// not an error.
func DotEnvTryLoad(absolutePathToEnvFile string) {
	err := DotEnvLoad(absolutePathToEnvFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", absolutePathToEnvFile).Msg(".env file could not be loaded")
		}
		return
	}

	log.Warn().Str("path", absolutePathToEnvFile).Msg(".env overrides ENV variables!")
}

// DotEnvLoad applies every KEY=VALUE of the file at path to the process environment.
func DotEnvLoad(absolutePathToEnvFile string) error {
	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		return err
	}
	defer file.Close()

	envs, err := gotenv.StrictParse(file)
	if err != nil {
		return err
	}

	for key, value := range envs {
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}
