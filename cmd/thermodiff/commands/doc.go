// Package commands defines the thermodiff CLI.
//
// Commands
//
//   - models   List the built-in thermodynamic models
//   - derive   Build the full derivative grid of a model or case file
//   - check    Verify a model's grid against finite differences at a state
//   - plot     Sweep a derivative over T, V or P and save a plot
//   - serve    Expose the tool interface over HTTP
//
// # Implementation
//
// Commands load their model either by built-in name or from a YAML case
// file, derive the grid once, and render it in the format selected by
// the persistent --format flag (text, latex or json).
package commands
