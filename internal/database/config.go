package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/config"
)

// DatabaseConfig holds MongoDB connection configuration
type DatabaseConfig struct {
	// MongoDB connection URI (includes all connection details including auth)
	URI string
	// Database name; derived from environment and service name when not configured
	DatabaseName string
	// Collection receiving agent flow traces
	Collection string
	// Application name for MongoDB connection
	AppName string
	// Bound on connect and on each write
	Timeout time.Duration
}

// NewDatabaseConfig builds the connection settings for the trace sink
func NewDatabaseConfig(diag config.DiagnosticsConfig, serviceName, environment string) *DatabaseConfig {
	name := diag.Database
	if name == "" {
		name = databaseName(serviceName, environment)
	}
	collection := diag.Collection
	if collection == "" {
		collection = "agent-flow-traces"
	}

	return &DatabaseConfig{
		URI:          diag.MongoURI,
		DatabaseName: name,
		Collection:   collection,
		AppName:      serviceName,
		Timeout:      5 * time.Second,
	}
}

// databaseName builds {env-prefix}-{service-name}
func databaseName(serviceName, environment string) string {
	var envPrefix string
	switch strings.ToLower(environment) {
	case "production", "prod":
		envPrefix = "prod"
	case "local":
		envPrefix = "loc"
	case "test":
		envPrefix = "test"
	default:
		envPrefix = "dev"
	}

	if serviceName == "" {
		serviceName = "eduverse-backend"
	}
	return fmt.Sprintf("%s-%s", envPrefix, strings.ReplaceAll(serviceName, "_", "-"))
}

// MaskSensitiveData returns a copy of the config with credentials masked for logging
func (c *DatabaseConfig) MaskSensitiveData() *DatabaseConfig {
	masked := *c
	schemeEnd := strings.Index(masked.URI, "//")
	at := strings.LastIndex(masked.URI, "@")
	if schemeEnd >= 0 && at > schemeEnd {
		masked.URI = masked.URI[:schemeEnd+2] + "***:***" + masked.URI[at:]
	}
	return &masked
}
