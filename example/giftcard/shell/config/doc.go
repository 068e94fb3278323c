// Package config loads the gift card example's runtime configuration from
// environment variables.
package config
