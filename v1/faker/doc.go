// Package faker registers fake-data generators backed by gofakeit in a
// function registry, under the "faker" namespace.
//
//	gen := faker.New(faker.Config{Seed: 42})
//	gen.Register(reg)
//
//	name, _ := reg.ExecuteFunction(ctx, "faker.name")
//	n, _ := reg.ExecuteFunction(ctx, "faker.int_range", 1, 10)
//
// Register returns the registered full names, sorted, and replaces
// entries that already exist.
//
// # Generators
//
//	person     name, first_name, last_name, username, job_title
//	contact    email, phone
//	company    company
//	address    address, street, city, state, country, zip
//	internet   uuid, url, ipv4
//	text       word, sentence
//	date_time  date
//	numeric    int_range, bool
//
// Every generator is tagged "faker" and with its group, is marked safe and
// declares the random capability.
//
// # Mapping Usage
//
// Generators ignore their source value, so a computed mapping needs no
// source:
//
//	field_mappings:
//	  full_name:
//	    type: computed
//	    function: faker.name
//
// # Reproducibility
//
// With a non-zero seed the sequence of generated values is reproducible
// for the same sequence of calls. Generators share one source guarded by
// a mutex, so they are safe for concurrent use, but concurrent callers
// interleave and lose that ordering.
package faker
