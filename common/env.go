// Package common provides constants and helpers shared by the cookiejar
// command line and its packages.
package common

// Environment variable names for configuration. Environment values override
// the YAML configuration file and are overridden by command line flags.
const (
	// ConfigPathEnv is the path of the YAML configuration file.
	ConfigPathEnv = "COOKIEJAR_CONFIG"

	// JarPathEnv is the path of the persisted jar file.
	JarPathEnv = "COOKIEJAR_JAR"

	// KeyEnv is a hex-encoded 32-byte key used to encrypt the jar file.
	KeyEnv = "COOKIEJAR_KEY"

	// PassphraseEnv is a passphrase used to encrypt the jar file.
	PassphraseEnv = "COOKIEJAR_PASSPHRASE"

	// KeyringEnv enables keeping the jar key in the OS keyring when set to true.
	KeyringEnv = "COOKIEJAR_KEYRING"

	// LogLevelEnv is the minimum log level (debug, info, warn, error).
	LogLevelEnv = "COOKIEJAR_LOG_LEVEL"

	// LogFormatEnv selects console or json log output.
	LogFormatEnv = "COOKIEJAR_LOG_FORMAT"

	// LogFileEnv is a file that receives a copy of every log line.
	LogFileEnv = "COOKIEJAR_LOG_FILE"

	// ListenEnv is the address the RPC server listens on.
	ListenEnv = "COOKIEJAR_LISTEN"

	// SecretEnv is the bearer token required by the RPC server.
	SecretEnv = "COOKIEJAR_RPC_SECRET"

	// UserAgentEnv overrides the User-Agent sent by fetch.
	UserAgentEnv = "COOKIEJAR_USER_AGENT"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "COOKIEJAR_DEBUG"
)
