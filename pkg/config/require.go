package config

import (
	"bytes"
	"log"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustServer checks the settings the API server cannot start without.
func (c Config) MustServer() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET")
	MustNonEmptyBytes(c.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	if bytes.Equal(c.JWTAccessSecret, c.JWTRefreshSecret) {
		log.Fatalf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
}
