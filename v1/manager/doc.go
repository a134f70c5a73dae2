// Package manager composes the function registry, validator, executor,
// faker generators and transformer behind one facade.
//
// Functions are validated before they are registered and refused when the
// validation reports errors. Calls go through the SafeExecutor at its
// configured security level, both when made directly through
// ExecuteFunction and when made by the transformer. Every operation is
// traced and feeds the Prometheus instruments of the metrics package;
// Statistics reports the same counters in process.
//
// Basic usage:
//
//	reg := registry.New(log)
//	exec, _ := executor.New(executor.Config{SecurityLevel: "safe"}, log)
//	val, _ := validator.New(validator.Config{Level: "standard"}, exec, log)
//
//	m, err := manager.New(manager.Config{}, manager.Dependencies{
//	    Registry:  reg,
//	    Validator: val,
//	    Executor:  exec,
//	    Faker:     faker.New(faker.Config{Seed: 42}),
//	    Mapping:   cfg,
//	    Target:    target,
//	})
//
//	res, err := m.RegisterFunction(ctx, "mask", mask, "Mask all but the last four characters", registry.CategoryString)
//	out := m.ExecuteFunction(ctx, "mask", "4111111111111111")
//	msg, err := m.Transform(ctx, record, nil)
//
// The manager is also provided through FXModule, which shares its
// Recorder with transformer.FXModule.
package manager
