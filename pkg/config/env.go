package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "AGRILINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "AGRILINK_DB_DSN"
	EnvDBHost = "AGRILINK_DB_HOST"
	EnvDBUser = "AGRILINK_DB_USER"
	EnvDBName = "AGRILINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
