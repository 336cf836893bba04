// Package config provides configuration management for the Fleet Admin
// dashboard service.
//
// Configuration is loaded from environment variables (prefix FLEET) merged
// with an optional YAML file, with environment taking precedence. The
// package also owns path resolution: every file the application reads or
// writes lives under the executable directory, resolved through the Paths
// type rather than ad hoc joins.
package config
