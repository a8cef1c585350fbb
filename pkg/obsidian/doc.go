// Package obsidian provides a read-only client for the Obsidian Local
// REST API, so a vault opened in a running Obsidian instance can be
// browsed the same way as a GitHub repository.
//
// The API is documented in the plugin's OpenAPI specification.
package obsidian
