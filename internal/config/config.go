package config

type Config interface {
	EnvConfig
	IdentityConfig
	RefreshConfig
}

type mainConfig struct {
	EnvVars
	Identity
	Refresh
}

func New() Config {
	return mainConfig{}
}
