package config

// ConfigFileName is the configuration file searched for by FindConfig.
const ConfigFileName = "dsimp.yaml"

// ConfigFileNames are all recognized configuration file names, in lookup order.
var ConfigFileNames = []string{"dsimp.yaml", "dsimp.yml"}

// TheoryFileExtensions are the extensions of theory files accepted by the CLI.
var TheoryFileExtensions = []string{".yaml", ".yml"}

// Defaults applied when the configuration leaves a setting out.
const (
	DefaultMaxSteps       = 10000
	DefaultMaxUnfold      = 1000
	DefaultVisitInstances = true
	DefaultLogLevel       = "info"
)

// Log levels accepted in the log_level setting.
var LogLevels = []string{"debug", "info", "warn", "error"}
