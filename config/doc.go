// Package config loads cloudkit client configuration.
//
// It uses Viper to read a cloudkit.yml file (working directory, then
// ~/.cloudkit) and overlays CLOUDKIT_* environment variables and an optional
// .env file.
//
// # Usage
//
//	var cfg client.Config
//	err := config.LoadConfig("default", &cfg)
//
// Environment variables override file values using underscore-separated
// paths (e.g., CLOUDKIT_TRANSPORT_TIMEOUT=10s).
//
// Properties is a separate, process-wide key/value set used as the "system
// properties" source of the credential provider chain.
package config
