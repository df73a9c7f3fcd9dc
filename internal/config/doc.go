// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources. Earlier sources take
// precedence over later ones for non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetStructuredConfig] for the merged
// configuration, [GetClientConfig] for the terminal client and
// [GetServerConfig] for the document server.
package config
