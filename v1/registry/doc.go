// Package registry is the directory of named transformation functions used
// by mappings and generators.
//
// Functions are ordinary Go func values registered under a name, an
// optional namespace and any number of aliases, together with metadata
// (category, tags, safety flag, declared capabilities, version). The
// registry keeps category, tag and namespace indices in step with the
// main table on every register, overwrite and unregister.
//
// Basic usage:
//
//	reg := registry.New(log)
//
//	reg.Register("upper", strings.ToUpper, "Upper-case a string",
//	    registry.CategoryString,
//	    registry.WithTags("case"),
//	    registry.WithAliases("to_upper"))
//
//	out, err := reg.ExecuteFunction(ctx, "to_upper", "hello")
//	if registry.IsFunctionNotFound(err) {
//	    // err lists every available name
//	}
//
// Calling convention:
//
// A registered function may take a leading context.Context, which receives
// the caller's context. Functions registered WithRequiresContext must take a
// map[string]interface{} next; ExecuteFunctionWithContext passes the call
// context (typically the source record) through it. A trailing error result
// is reported as the call's error. See package callable for the argument
// conversion rules.
//
// Discovery:
//
//	reg.ListFunctions(registry.ListFilter{Category: registry.CategoryFaker, SafeOnly: true})
//	reg.SearchFunctions("email")
//
// Export and import:
//
// Export writes function metadata (never the callables) as YAML for audit.
// Import re-registers entries from such a document, asking a Resolver for
// each callable and reporting the entries it had to skip.
//
// Thread Safety:
//
// All methods are safe for concurrent use. Lookups and executions take a
// read lock only.
package registry
