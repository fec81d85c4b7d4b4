package authorize

import "github.com/ankurdental/dentaldesk/config"

// Config holds configuration for the authorization system
type Config struct {
	// CasbinModelPath replaces DefaultModel when set.
	CasbinModelPath string

	// EnableAudit logs every authorization decision.
	EnableAudit bool

	// AdminBypass lets clinic-wide admins skip policy evaluation.
	AdminBypass bool
}

func DefaultConfig() Config {
	return Config{
		EnableAudit: false,
		AdminBypass: true,
	}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		CasbinModelPath: c.CasbinModelPath,
		EnableAudit:     c.EnableAudit,
		AdminBypass:     c.AdminBypass,
	}
}
