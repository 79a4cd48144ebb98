package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// WriteEnvFile merges values into the dotenv file at path, keeping keys it
// does not touch.
func WriteEnvFile(path string, values map[string]string) error {
	env := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		existing, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		env = existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	for k, v := range values {
		if v == "" {
			continue
		}
		env[k] = v
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
