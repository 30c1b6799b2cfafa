// Package cli defines the Cobra command tree for the svrx CLI. Each file in
// this package registers one command with the root command. Commands
// delegate to the manager for version handling and only deal with flag
// parsing, output formatting and exit status.
//
// Invoked without a subcommand, the CLI behaves as `svrx serve` and forwards
// every remaining argument to the launched server as an option.
package cli
