// Package config defines the configuration for a beacon node.
//
// Regardless of how beacon is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package to store and forward configuration options. On top of these
// options, beacon relies on a data directory, defined by Config.DataDir, where
// it expects to find an optional additional configuration file:
//
//	peers.json // a JSON file containing the list of recognized peers.
//
// The data directory also receives beacon.log, a copy of the log output.
package config
