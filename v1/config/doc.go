// Package config loads the application configuration.
//
// Values are layered, lowest precedence first:
//
//  1. the `default` struct tags of each section's Config type
//  2. a YAML file (Options.File, or config.yaml in . or ./configs)
//  3. dotenv files (.env by default), loaded into the process environment
//  4. environment variables: TESTDATA_ followed by the upper-cased key path
//     with dots replaced by underscores, e.g. TESTDATA_KAFKA_BROKERS
//
// The result is validated as a whole; every problem is reported at once in
// a *ValidationError.
//
//	cfg, err := config.Load(config.Options{File: "testdatagen.yaml"})
//	if err != nil {
//		return err
//	}
//
// FXModule supplies each section to the fx graph so package modules such as
// kafka.FXModule receive their Config directly.
package config
