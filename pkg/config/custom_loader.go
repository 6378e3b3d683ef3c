package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given dotenv files, in
// order, with later files overriding earlier ones. With no arguments it
// loads the default .env file from the working directory.
//
// Unlike the implicit .env loading performed by Load, a named file that
// does not exist is an error.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		return godotenv.Load()
	}

	// Overload lets each file override the previous ones, so the last
	// file has the highest precedence.
	for _, filename := range filenames {
		if err := godotenv.Overload(filename); err != nil {
			return errors.Join(ErrFailedToLoadEnvFile, err)
		}
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(filenames ...string) {
	if err := LoadEnv(filenames...); err != nil {
		panic(fmt.Sprintf("Failed to load environment files: %v", err))
	}
}

// ForceReloadConfig parses the environment into v, bypassing and then
// replacing any cached value for its type. Intended for tests and
// long-running processes that reload configuration on signal.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	typeName := getTypeName[T]()

	globalCache.mu.Lock()
	globalCache.values[typeName] = *v
	globalCache.mu.Unlock()

	return nil
}

// ResetCache drops every cached configuration value so the next Load
// re-parses the environment. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()

	clear(globalCache.values)
	clear(globalCache.onces)
}
