// Command testdatagen builds protobuf test messages from declarative field
// mappings and publishes them to Kafka.
//
// Usage:
//
//	testdatagen [-config file] [-env-file file] <command> [flags]
//
// Commands:
//
//	generate   transform input records (or blank records) and print them as JSON
//	produce    transform records and publish them to a Kafka topic
//	functions  list, search, validate or export registered functions
//	schema     register a message's .proto with the schema registry
//	topic      create, delete or list Kafka topics
//	version    print the version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/Aleph-Alpha/testdatagen/v1/config"
)

// Version information (set at build time).
var (
	version   = "dev"
	gitCommit = "unknown"
)

// env is what every command receives.
type env struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"generate":  {"transform records and print them as JSON", runGenerate},
	"produce":   {"transform records and publish them to Kafka", runProduce},
	"functions": {"list|search|validate|export|stats registered functions", runFunctions},
	"schema":    {"register a message schema with the schema registry", runSchema},
	"topic":     {"create|delete|list Kafka topics", runTopic},
}

// usageError marks a problem with the command line rather than the work.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return usageError{fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("testdatagen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file (default: config.yaml in . or ./configs)")
	envFile := fs.String("env-file", ".env", "dotenv file loaded before the environment is read")
	fs.Usage = func() { printUsage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}
	name := rest[0]
	if name == "version" {
		fmt.Fprintf(stdout, "testdatagen %s (%s)\n", version, gitCommit)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "testdatagen: unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(config.Options{File: *configFile, EnvFiles: []string{*envFile}})
	if err != nil {
		fmt.Fprintf(stderr, "testdatagen: %v\n", err)
		return 1
	}

	err = cmd.run(ctx, &env{cfg: cfg, stdout: stdout, stderr: stderr}, rest[1:])
	var uerr usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "testdatagen %s: %v\n", name, err)
		return 2
	default:
		fmt.Fprintf(stderr, "testdatagen %s: %v\n", name, err)
		return 1
	}
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: testdatagen [flags] <command> [command flags]")
	fmt.Fprintln(w, "\nCommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "version", "print the version")
	fmt.Fprintln(w, "\nFlags:")
	fs.PrintDefaults()
}

// subcommand parses args for a nested command such as "functions list".
func subcommand(name string, args []string, subs ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, usagef("%s needs a subcommand: %v", name, subs)
	}
	for _, s := range subs {
		if args[0] == s {
			return s, args[1:], nil
		}
	}
	return "", nil, usagef("unknown %s subcommand %q, want one of %v", name, args[0], subs)
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err.Error()}
	}
	return nil
}
