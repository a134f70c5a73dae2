package validator

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/testdatagen/v1/callable"
	"github.com/Aleph-Alpha/testdatagen/v1/executor"
)

// probes are the edge-case inputs the paranoid level calls functions with.
var probes = []interface{}{
	nil, 0, 1, -1, "", "test", []interface{}{}, map[string]interface{}{}, true, false,
}

// checkParanoid calls fn once per probe, filling every required parameter
// with the probe value. Probes run sandboxed with the configured timeout
// and never make the result invalid.
func (v *Validator) checkParanoid(ctx context.Context, fn interface{}, sig callable.Signature, opts Options, res *ValidationResult) {
	n := sig.RequiredParams()
	if n == 0 && sig.NumParams() > 0 {
		n = 1
	}

	passed, failed := 0, 0
	var failures []string
	for _, probe := range probes {
		args := make([]interface{}, n)
		for i := range args {
			args[i] = probe
		}
		out := v.exec.ExecuteAt(ctx, executor.Sandbox, fn, executor.Options{
			Timeout:         v.probeTimeout,
			RequiresContext: opts.RequiresContext,
		}, args...)
		if out.Success {
			passed++
			continue
		}
		failed++
		failures = append(failures, fmt.Sprintf("%#v: %v", probe, out.Err))
	}

	res.Metadata["probes_passed"] = passed
	res.Metadata["probes_failed"] = failed
	res.Metadata["probe_failures"] = failures

	if passed == 0 {
		res.addWarning(fmt.Sprintf("function failed on all %d probe inputs", len(probes)))
		res.suggest("handle zero values and unexpected types gracefully")
	}
}
