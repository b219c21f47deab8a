package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every field required for the environment is set.
// Production additionally rejects the development JWT secret.
func ValidateConfig(cfg *Config, env Environment) error {
	required := map[string]string{
		"ServerPort": cfg.ServerPort,
		"DBHost":     cfg.DBHost,
		"DBPort":     cfg.DBPort,
		"DBUser":     cfg.DBUser,
		"DBName":     cfg.DBName,
		"JWTSecret":  cfg.JWTSecret,
	}

	var missing []string
	for field, value := range required {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return ValidationError{
			Field:   strings.Join(missing, ", "),
			Message: fmt.Sprintf("required in %s environment", env),
		}
	}

	if env == Production {
		if cfg.JWTSecret == "your-secret-key" {
			return ValidationError{Field: "JWTSecret", Message: "default secret not allowed in production"}
		}
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DBPassword", Message: "required in production environment"}
		}
	}

	return nil
}
