package main

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/schema"
	"github.com/Aleph-Alpha/testdatagen/v1/schema_registry"
)

func runSchema(ctx context.Context, e *env, args []string) error {
	sub, args, err := subcommand("schema", args, "register", "show")
	if err != nil {
		return err
	}

	fs := newFlagSet("schema "+sub, e)
	descriptorSet := fs.String("descriptor-set", e.cfg.Transformer.DescriptorSet, "protoc --descriptor_set_out file")
	message := fs.String("message", e.cfg.Transformer.TargetSchema, "full name of the message")
	topic := fs.String("topic", e.cfg.Kafka.Topic, "topic the subject is derived from")
	subject := fs.String("subject", "", "explicit subject; derived from -topic and the subject strategy otherwise")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *descriptorSet == "" || *message == "" {
		return usagef("-descriptor-set and -message are required")
	}

	catalog := schema.NewCatalog(nil)
	if _, err := catalog.LoadFile(*descriptorSet); err != nil {
		return err
	}
	md, err := catalog.Descriptor(*message)
	if err != nil {
		return err
	}

	if sub == "show" {
		fmt.Fprint(e.stdout, schema_registry.ProtoSchema(md.ParentFile()))
		return nil
	}

	if *subject == "" {
		if *topic == "" {
			return usagef("pass -subject or -topic")
		}
		strategy, err := schema_registry.ParseSubjectNameStrategy(e.cfg.SchemaRegistry.SubjectStrategy)
		if err != nil {
			return err
		}
		*subject = strategy.Subject(*topic, string(md.FullName()), false)
	}

	var reg schema_registry.Registry
	return withApp(ctx, func(ctx context.Context) error {
		id, err := schema_registry.RegisterProtoFile(ctx, reg, *subject, md.ParentFile())
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "registered %s under %s with id %d\n", md.FullName(), *subject, id)
		return nil
	},
		ambientModules(e.cfg),
		registryModules(e.cfg),
		fx.Populate(&reg),
	)
}
