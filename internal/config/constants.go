package config

// Application constants
const (
	AppName = "ratelens"

	// EnvPrefix namespaces every environment variable, e.g. RATELENS_LOGGING_LEVEL
	EnvPrefix  = "RATELENS"
	DotEnvFile = ".env"

	DefaultDelimiter          = ';'
	DefaultDeviationThreshold = 5.0

	DefaultChartsDir = "charts"
	DefaultLogFile   = "logs/ratelens.log"
)

// ConfigLocations are searched in order when no config path is given
var ConfigLocations = []string{
	"ratelens.yaml",
	"configs/ratelens.yaml",
}
