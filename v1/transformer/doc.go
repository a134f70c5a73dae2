// Package transformer materialises protobuf messages from plain data.
//
// A Transformer applies a mapping configuration (see package mapping) to an
// input object and writes the results into a message described by a
// schema.MessageSchema, so generated types and descriptor-set types built
// with dynamicpb are handled alike.
//
// Each mapping is processed in order:
//
//  1. skipped with a warning when the target field is not in the schema
//  2. skipped when its condition does not hold
//  3. resolved from the source path, a function or a conditional branch,
//     falling back to the default
//  4. a required mapping without a value fails with ErrRequiredField; an
//     optional one is skipped
//  5. passed through its function, which must be registered
//  6. checked against its validation rules
//  7. written according to the field's shape; objects written to message
//     fields are built recursively with the nested mappings
//
// Fields no mapping covers are then filled from same-named input keys when
// auto-mapping is enabled. Auto-mapping never fails a transformation.
//
// Basic usage:
//
//	reg := registry.New(log)
//	transformer.RegisterBuiltins(reg)
//	faker.New(faker.Config{}).Register(reg)
//
//	cfg, err := mapping.Load("user_mapping.yaml")
//	if err != nil {
//	    return err
//	}
//	t, err := transformer.New(reg, cfg, transformer.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	msg, err := t.Transform(ctx, map[string]interface{}{"name": "Ada"},
//	    schema.FromMessage(&userpb.User{}))
package transformer
