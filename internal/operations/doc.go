// Package operations runs a command as an ordered set of steps.
//
// A Step declares the steps it depends on, checks its inputs in Validate
// and reads and writes the shared State in Execute. The Registry orders the
// steps with Kahn's algorithm, breaking ties by registration order, and the
// Runner executes them one after the other:
//
//	reg := operations.NewRegistry()
//	reg.Register(operations.NewLoadStep(env, sources))
//	reg.Register(operations.NewMergeStep(env))
//	reg.Register(operations.NewRatiosStep(env))
//
//	state := operations.NewState(runID, "ratios")
//	err := operations.NewRunner(reg, metrics, logger).Run(ctx, state)
//
// The runner opens a span for each step, records step metrics and stops at
// the first error. Cancelling the context aborts the run before the next
// step starts.
package operations
