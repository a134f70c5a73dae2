package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/kafka"
)

func runTopic(ctx context.Context, e *env, args []string) error {
	sub, args, err := subcommand("topic", args, "create", "delete", "list")
	if err != nil {
		return err
	}

	fs := newFlagSet("topic "+sub, e)
	partitions := fs.Int("partitions", e.cfg.Kafka.Partitions, "partitions of a new topic (create)")
	replication := fs.Int("replication", e.cfg.Kafka.ReplicationFactor, "replication factor of a new topic (create)")
	internal := fs.Bool("internal", false, "include internal topics (list)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if sub != "list" && fs.NArg() == 0 {
		return usagef("%s needs at least one topic name", sub)
	}

	var admin *kafka.Admin
	return withApp(ctx, func(ctx context.Context) error {
		switch sub {
		case "create":
			for _, name := range fs.Args() {
				if err := admin.CreateTopic(ctx, name, *partitions, *replication); err != nil {
					return err
				}
				fmt.Fprintf(e.stdout, "created %s\n", name)
			}
		case "delete":
			for _, name := range fs.Args() {
				if err := admin.DeleteTopic(ctx, name); err != nil {
					return err
				}
				fmt.Fprintf(e.stdout, "deleted %s\n", name)
			}
		default:
			topics, err := admin.ListTopics(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOPIC\tPARTITIONS")
			for _, t := range topics {
				if t.Internal && !*internal {
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\n", t.Name, t.Partitions)
			}
			return tw.Flush()
		}
		return nil
	},
		ambientModules(e.cfg),
		fx.Provide(kafka.NewAdmin),
		fx.Populate(&admin),
	)
}
