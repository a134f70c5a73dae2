package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/testdatagen/v1/manager"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

func runFunctions(ctx context.Context, e *env, args []string) error {
	sub, args, err := subcommand("functions", args, "list", "search", "validate", "export", "stats")
	if err != nil {
		return err
	}

	fs := newFlagSet("functions "+sub, e)
	category := fs.String("category", "", "only functions of this category (list)")
	tag := fs.String("tag", "", "only functions with this tag (list)")
	namespace := fs.String("namespace", "", "only functions in this namespace (list)")
	safeOnly := fs.Bool("safe", false, "only functions marked safe (list)")
	level := fs.String("level", "", "validation level: basic, standard, strict or paranoid (validate)")
	output := fs.String("o", "", "write the export to this file instead of stdout (export)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var m *manager.Manager
	return withApp(ctx, func(ctx context.Context) error {
		reg := m.Registry()
		switch sub {
		case "list":
			filter := registry.ListFilter{Tag: *tag, Namespace: *namespace, SafeOnly: *safeOnly}
			if *category != "" {
				c, err := registry.ParseCategory(*category)
				if err != nil {
					return usagef("%v", err)
				}
				filter.Category = c
			}
			return printFunctions(e.stdout, reg, reg.ListFunctions(filter))

		case "search":
			if fs.NArg() != 1 {
				return usagef("search takes exactly one query")
			}
			return printFunctions(e.stdout, reg, reg.SearchFunctions(fs.Arg(0)))

		case "validate":
			if fs.NArg() == 0 {
				return usagef("validate needs at least one function name")
			}
			lvl, err := validator.ParseLevel(*level)
			if err != nil {
				return usagef("%v", err)
			}
			invalid := 0
			for _, name := range fs.Args() {
				res, err := m.ValidateFunction(ctx, name, lvl)
				if err != nil {
					return err
				}
				printValidation(e.stdout, name, res)
				if !res.Valid {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d functions failed validation", invalid, fs.NArg())
			}
			return nil

		case "export":
			if *output != "" {
				if err := reg.ExportFile(*output); err != nil {
					return err
				}
				fmt.Fprintf(e.stderr, "exported %d functions to %s\n", reg.Len(), *output)
				return nil
			}
			return reg.Export(e.stdout)

		default: // stats
			enc := yaml.NewEncoder(e.stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(m.Statistics())
		}
	},
		ambientModules(e.cfg),
		coreModules(),
		fx.Populate(&m),
	)
}

func printFunctions(w io.Writer, reg *registry.Registry, names []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tSAFE\tDESCRIPTION")
	for _, name := range names {
		fn, ok := reg.GetFunction(name)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", fn.FullName(), fn.Category, fn.IsSafe, fn.Description)
	}
	return tw.Flush()
}

func printValidation(w io.Writer, name string, res validator.ValidationResult) {
	status := "valid"
	if !res.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "%s: %s at level %s\n", name, status, res.Level)
	for _, msg := range res.Errors {
		fmt.Fprintf(w, "  error:      %s\n", msg)
	}
	for _, msg := range res.Warnings {
		fmt.Fprintf(w, "  warning:    %s\n", msg)
	}
	for _, msg := range res.Suggestions {
		fmt.Fprintf(w, "  suggestion: %s\n", msg)
	}
	keys := make([]string, 0, len(res.Metadata))
	for k := range res.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %v\n", strings.ReplaceAll(k, "_", " "), res.Metadata[k])
	}
}

