// Package config loads runtime configuration from multiple sources (a dotenv
// file, environment variables, a YAML file, CLI flags) with precedence: CLI
// flags > YAML config > Environment variables > .env file > Defaults. Besides
// server settings it carries the pallet profiles offered to clients and the
// unit assumed when a request omits one.
package config
