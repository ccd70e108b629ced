package executor_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
)

func ExampleRunner_RunWithCallback() {
	runner := executor.NewRunner(nil)

	_ = runner.Submit(executor.Task{
		Name: "tsm",
		Execute: func(ctx context.Context) ([]metrics.Record, error) {
			return nil, errors.New("login rejected")
		},
	})
	_ = runner.Submit(executor.Task{
		Name: "systeminfo",
		Execute: func(ctx context.Context) ([]metrics.Record, error) {
			return []metrics.Record{{Measurement: "tableau_systeminfo"}}, nil
		},
	})

	_, _ = runner.RunWithCallback(context.Background(), func(r executor.Result) {
		if r.Error != nil {
			fmt.Printf("%s failed: %v\n", r.CheckName, r.Error)
			return
		}
		fmt.Printf("%s: %d records\n", r.CheckName, len(r.Records))
	})

	// Output:
	// tsm failed: login rejected
	// systeminfo: 1 records
}
