package config

import "github.com/spf13/viper"

// setDefaults installs the built-in defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind_address", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 30)

	v.SetDefault("database.path", "data/ledger")
	v.SetDefault("database.sale_archive_path", "data/sales.db")
}
