package accountsvc

import "time"

// InsecureDefaultSecret is the fallback signing secret. It must be replaced in production.
const InsecureDefaultSecret = "default_secret_key"

// AccountConfig contains configuration parameters for the account service.
type AccountConfig struct {
	// Secret is the HMAC key used to sign session tokens
	Secret string `env:"SECRET" alias:"JWT_SECRET" default:"default_secret_key"`

	// SecretFile, when set, holds the signing secret instead of Secret.
	// A missing file is created with a random secret.
	SecretFile string `env:"SECRET_FILE" default:""`

	// HashCost is the bcrypt work factor
	HashCost int `env:"HASH_COST" default:"11"`

	// HashConcurrency bounds the number of concurrent hash operations (0 = GOMAXPROCS)
	HashConcurrency int `env:"HASH_CONCURRENCY" default:"0"`

	// TokenTTL is the validity of issued tokens (0 = tokens never expire)
	TokenTTL time.Duration `env:"TOKEN_TTL" default:"0s"`
}

// InsecureSecret reports whether the configured secret is the built-in fallback.
func (c AccountConfig) InsecureSecret() bool {
	return c.SecretFile == "" && (c.Secret == "" || c.Secret == InsecureDefaultSecret)
}
