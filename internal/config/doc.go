// Package config loads the unpop configuration.
//
// Values come from struct defaults, UNPOP_* environment variables (for
// example UNPOP_INPUTS_POPULATION_A or UNPOP_LOGGING_LEVEL) and an optional
// YAML file, in that order. Command line flags are applied by the caller and
// the result re-checked with Validate.
package config
