// Package mapping parses and validates field-mapping documents: the
// configuration that tells the transformer how each field of a target
// message gets its value.
//
// A document is YAML (or JSON). Its structure is checked against a JSON
// Schema first, then every mapping is checked semantically; all problems
// are reported together and an invalid document is never partially used.
//
// Mapping kinds:
//
//   - direct: copy the value at source (dotted paths reach into nested
//     objects), optionally through a function
//   - computed: call a function, passing the source value if there is one
//   - conditional: evaluate branches in order; the first whose condition
//     holds yields its static value or its function's result
//   - nested: build a message field from the source object with nested
//     mappings
//   - repeated: fill a repeated field from a source list, applying the
//     function and nested mappings per element
//
// Conditions support exactly two forms, exists:<field> and
// <field>==<literal>. Validation rules are not_empty, min_length:N,
// max_length:N, min:N, max:N and pattern:RE.
//
// Values that may or may not exist are carried as Resolved, which is
// either Present(v) or Absent.
//
// Watcher reloads a document from disk when it changes, for long-running
// producers.
package mapping
