// Package cmd implements the hitsend CLI commands using Cobra.
//
// Available commands:
//   - get: Send a request without a body
//   - post: Send a raw request body
//   - upload: Send multipart/form-data fields and files
//   - curl: Replay a curl command line
//   - status: Show the canonical status catalog
//   - cookie: Parse and rewrite a Cookie header
//   - history: List or clear the SQLite transaction log
//   - version: Show hitsend version information
//
// Transaction commands accept --repeat and --rate to send several fresh
// requests and print a latency summary, --expect to check each reply, and
// --watch to send again when an input file changes.
package cmd
