package config

// Placeholders written by Sanitize.
const (
	maskedValue  = "****"
	defaultValue = "<shipped default>"
)

// Sanitize returns a copy of cfg that is safe to log. Secrets are masked,
// except that a secret still at its shipped default is reported as such.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	out := *cfg
	out.Security.JWTSecret = maskSecret(cfg.Security.JWTSecret, cfg.IsDefaultSecret())
	out.Security.Admin.Password = maskSecret(cfg.Security.Admin.Password, cfg.IsDefaultAdminPassword())
	return &out
}

func maskSecret(s string, isDefault bool) string {
	switch {
	case s == "":
		return ""
	case isDefault:
		return defaultValue
	default:
		return maskedValue
	}
}
