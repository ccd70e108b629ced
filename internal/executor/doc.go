// Package executor runs the configured checks of one poll cycle.
//
// Checks run strictly one after another in the order they were submitted.
// Each check is isolated: an error or a panic in one check becomes an error
// result for that check only, and the following checks still run.
//
// # Basic Usage
//
//	runner := executor.NewRunner(logger)
//
//	runner.Submit(executor.Task{
//	    Name:    "tsm",
//	    Execute: tsmCheck.Collect,
//	})
//
//	results, err := runner.Run(ctx)
//
// # Streaming Results
//
// RunWithCallback hands every result to a callback as soon as its check
// finishes, before the next check starts:
//
//	runner.RunWithCallback(ctx, func(r executor.Result) {
//	    if r.Error != nil {
//	        emitter.Emit(fallback(r.CheckName))
//	        return
//	    }
//	    emitter.EmitAll(r.Records)
//	})
//
// # Result Aggregation
//
//	summary := executor.Summarize(results)
//	failed := executor.FilterFailed(results)
//
// A Runner rejects overlapping runs, so a cycle can never start while the
// previous one is still in progress.
package executor
