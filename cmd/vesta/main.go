// Vesta is a content-inspection engine for electronic mail.
//
// It runs an extensible population of detection symbols against each
// message, respecting declared dependencies, per-symbol priorities, and a
// hard per-message deadline, and folds their outputs into a weighted
// verdict. Scheduling stops early once the accumulated score makes the
// remaining checks immaterial.
//
// Usage:
//
//	# Start the engine daemon with a configuration file
//	vesta run --config /path/to/config.yaml
//
//	# Scan a single raw message and print the verdict
//	vesta scan --config config.yaml message.eml
//
//	# Validate configuration and the symbol dependency graph
//	vesta lint --config config.yaml
//
//	# Show version information
//	vesta version
package main

func main() {
	Execute()
}
