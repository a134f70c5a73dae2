package manager

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

// Recorder runs registered functions through the executor and counts every
// call. The manager reads its counters for Statistics; the transformer uses
// Invoke so that function calls made while transforming are isolated and
// counted the same way.
type Recorder struct {
	executor *executor.Executor
	metrics  metrics.MetricsCollector

	executions atomic.Int64
	failures   atomic.Int64
	nanos      atomic.Int64
}

// NewRecorder creates a Recorder. m may be nil.
func NewRecorder(exec *executor.Executor, m metrics.MetricsCollector) *Recorder {
	return &Recorder{executor: exec, metrics: m}
}

// Run calls fn through the executor with the function's declared
// capabilities as grants.
func (r *Recorder) Run(ctx context.Context, fn *registry.RegisteredFunction, callCtx map[string]interface{}, args []interface{}) executor.ExecutionResult {
	res := r.executor.Execute(ctx, fn.Func, executor.Options{
		RequiresContext: fn.RequiresContext,
		CallContext:     callCtx,
		Grants:          fn.Capabilities,
	}, args...)
	if res.Err != nil {
		res.Err = &registry.ExecutionError{Function: fn.FullName(), ArgCount: len(args), Cause: res.Err}
	}
	r.record(fn.FullName(), res.Success, res.Duration)
	return res
}

// Invoke satisfies transformer.Invoker.
func (r *Recorder) Invoke(ctx context.Context, fn *registry.RegisteredFunction, callCtx map[string]interface{}, args []interface{}) (interface{}, error) {
	res := r.Run(ctx, fn, callCtx, args)
	return res.Value, res.Err
}

func (r *Recorder) record(name string, success bool, d time.Duration) {
	r.executions.Add(1)
	if !success {
		r.failures.Add(1)
	}
	r.nanos.Add(int64(d))
	if r.metrics != nil {
		r.metrics.ObserveExecution(name, success, d)
	}
}

func (r *Recorder) snapshot() (executions, failures int64, avg time.Duration) {
	executions = r.executions.Load()
	failures = r.failures.Load()
	if executions > 0 {
		avg = time.Duration(r.nanos.Load() / executions)
	}
	return executions, failures, avg
}
