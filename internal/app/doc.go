// Package app wires the ambient stack of one command run.
//
// A run loads the configuration, initializes logging and telemetry,
// resolves the data and output directories and then drives the command's
// step pipeline from the operations package. Every command binary is a
// thin main around Main:
//
//	func main() {
//	    os.Exit(app.Main(operations.CommandRatios, os.Args[1:]))
//	}
//
// The run ID is a UUID carried in the context as the trace ID, so every
// log line of a run can be correlated with its run summary.
package app
