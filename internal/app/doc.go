// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the scenario runner that drives flow
// sessions against a database, decoupled from any specific entrypoint like a
// CLI or server.
package app
