package constants

const (
	AppName      = "dentaldesk"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "DENTALDESK"

	// DefaultKeyPrefix namespaces every key the persisted store writes.
	DefaultKeyPrefix = "dental_"
)

// Environment names used by server.environment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)
