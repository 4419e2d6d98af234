// Package cmd implements the shell-ai command line.
//
// # Commands
//
//   - root.go: App struct, cobra root command, persistent flags and the
//     `shai` shorthand
//   - suggest.go: suggest, prints generated commands per frontend
//   - explain.go: explain, reads the command from args or piped stdin
//   - config.go: config (show), config init, config schema
//
// # Configuration
//
// Every command loads the configuration in PersistentPreRunE. Only flags
// the user actually passed become CLI overrides, so an unset flag never
// hides a value from a file or environment variable:
//
//	shell-ai --model gpt-4.1 suggest "list files"   # model from --model
//	SHAI_MODEL=o3 shell-ai suggest "list files"      # model from SHAI_MODEL
//
// Errors are printed by Execute and exit with status 1.
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
