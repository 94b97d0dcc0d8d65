// Package config loads the nftstored configuration from TOML, the
// environment and built-in defaults.
package config

// Config represents the complete nftstored configuration.
type Config struct {
	// Server section
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// Database section
	Database DatabaseConfig `toml:"database" mapstructure:"database"`
}

// ServerConfig controls the RPC listener.
type ServerConfig struct {
	// BindAddress is the address to bind to; empty means all
	// interfaces.
	BindAddress string `toml:"bind_address" mapstructure:"bind_address"`

	// Port is the RPC listen port.
	Port int `toml:"port" mapstructure:"port"`

	// RequestTimeoutSeconds bounds each RPC request.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
}

// DatabaseConfig controls persistence paths.
type DatabaseConfig struct {
	// Path is the pebble ledger state directory.
	Path string `toml:"path" mapstructure:"path"`

	// SaleArchivePath is the sqlite sale archive file. Empty disables
	// the archive; ":memory:" keeps it ephemeral.
	SaleArchivePath string `toml:"sale_archive_path" mapstructure:"sale_archive_path"`
}
