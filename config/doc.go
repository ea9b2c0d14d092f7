// Package config provides configuration loading and validation for the
// A-EMS services.
//
// It uses viper to merge an optional config.yml with a .env file and the
// process environment. Environment variables win; UPPER_SNAKE names map onto
// nested keys, so JWT_SECRET_KEY overrides jwt.secret_key.
//
// # Usage
//
//	var cfg GatewayConfig
//	err := config.LoadConfig("gateway", &cfg)
package config
