package lookup

import (
	"fmt"

	"github.com/joho/godotenv"
)

// NewEnv builds an Env source, loading the given .env files into the process
// environment first. Files are optional in the godotenv sense: a missing file
// is an error, an empty list just reads the current environment.
func NewEnv(prefix string, dotenvFiles ...string) (Env, error) {
	if len(dotenvFiles) > 0 {
		if err := godotenv.Load(dotenvFiles...); err != nil {
			return Env{}, fmt.Errorf("lookup: loading dotenv: %w", err)
		}
	}
	return Env{Prefix: prefix}, nil
}
