// Package confloader layers configuration sources with koanf.
//
// Priority (highest to lowest):
//
//  1. Values loaded with LoadMap (command-line flags)
//  2. Environment variables (XRPC_ prefix, "__" separates levels)
//  3. Configuration file (YAML)
//  4. Defaults already present in the target struct
package confloader
