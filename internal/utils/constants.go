package utils

const (
	// ConfigFileName is the settings file looked up in the working directory.
	ConfigFileName = "callpath.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under the home directory.
	GlobalConfigDirectoryName = ".callpath"
	// GitDirectoryName is the repository metadata directory used for version lookup.
	GitDirectoryName = ".git"
	// DefaultOutputFileName is the rendered artifact path used when out_file is not configured.
	DefaultOutputFileName = "callgraph.svg"
	// DefaultRendererBinaryName is the Graphviz binary invoked to render the DOT text.
	DefaultRendererBinaryName = "dot"
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal application errors.
	ApplicationExecutionFailedMessage = "application execution failed"
)
