package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/Aleph-Alpha/testdatagen/v1/kafka"
	"github.com/Aleph-Alpha/testdatagen/v1/manager"
)

// transformFlags are shared by generate and produce.
type transformFlags struct {
	mapping       string
	descriptorSet string
	target        string
	input         string
	count         int
	seed          uint64
}

func (f *transformFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.mapping, "mapping", "", "mapping document (overrides transformer.mapping_file)")
	fs.StringVar(&f.descriptorSet, "descriptor-set", "", "protoc --descriptor_set_out file (overrides transformer.descriptor_set)")
	fs.StringVar(&f.target, "target", "", "full name of the target message (overrides transformer.target_schema)")
	fs.StringVar(&f.input, "input", "", "JSON records: an array, or one object per line; - reads stdin")
	fs.IntVar(&f.count, "count", 0, "number of records; input records are cycled, blank records are used without input")
	fs.Uint64Var(&f.seed, "seed", 0, "faker seed for reproducible output (overrides faker.seed)")
}

// apply copies the flags into the configuration before the application
// is built.
func (f *transformFlags) apply(e *env) {
	if f.mapping != "" {
		e.cfg.Transformer.MappingFile = f.mapping
	}
	if f.descriptorSet != "" {
		e.cfg.Transformer.DescriptorSet = f.descriptorSet
	}
	if f.target != "" {
		e.cfg.Transformer.TargetSchema = f.target
	}
	if f.seed != 0 {
		e.cfg.Faker.Seed = f.seed
	}
	// A one-shot command has nothing to reload.
	e.cfg.Transformer.WatchMapping = false
}

func (f *transformFlags) records() ([]map[string]interface{}, error) {
	var recs []map[string]interface{}
	switch f.input {
	case "":
	case "-":
		r, err := readRecords(os.Stdin)
		if err != nil {
			return nil, err
		}
		recs = r
	default:
		file, err := os.Open(f.input)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if recs, err = readRecords(file); err != nil {
			return nil, fmt.Errorf("%s: %w", f.input, err)
		}
	}
	return expandRecords(recs, f.count), nil
}

// readRecords decodes a stream of JSON values. Objects are records;
// arrays contribute each of their elements.
func readRecords(r io.Reader) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	var out []map[string]interface{}
	for i := 0; ; i++ {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		switch x := v.(type) {
		case map[string]interface{}:
			out = append(out, x)
		case []interface{}:
			for j, el := range x {
				obj, ok := el.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("record %d[%d]: want an object, got %T", i, j, el)
				}
				out = append(out, obj)
			}
		default:
			return nil, fmt.Errorf("record %d: want an object, got %T", i, v)
		}
	}
}

// expandRecords cycles recs up to count records. Without records, count
// blank records are returned; without a count, recs is returned as is.
func expandRecords(recs []map[string]interface{}, count int) []map[string]interface{} {
	if count <= 0 {
		if len(recs) == 0 {
			return []map[string]interface{}{{}}
		}
		return recs
	}
	out := make([]map[string]interface{}, count)
	for i := range out {
		if len(recs) == 0 {
			out[i] = map[string]interface{}{}
			continue
		}
		out[i] = recs[i%len(recs)]
	}
	return out
}

// transformAll runs records through m and reports failures on stderr. It
// returns the messages that were built, in input order.
func transformAll(ctx context.Context, e *env, m *manager.Manager, records []map[string]interface{}) ([]proto.Message, error) {
	results := m.TransformBatch(ctx, records, nil)
	msgs := make([]proto.Message, 0, len(results))
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(e.stderr, "record %d: %v\n", i, r.Err)
			continue
		}
		msgs = append(msgs, r.Message)
	}
	if failed > 0 {
		return msgs, fmt.Errorf("%d of %d records failed", failed, len(records))
	}
	return msgs, nil
}

func runGenerate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("generate", e)
	var tf transformFlags
	tf.register(fs)
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	tf.apply(e)
	records, err := tf.records()
	if err != nil {
		return err
	}

	var m *manager.Manager
	return withApp(ctx, func(ctx context.Context) error {
		msgs, err := transformAll(ctx, e, m, records)
		opts := protojson.MarshalOptions{UseProtoNames: true}
		if *pretty {
			opts.Multiline = true
		}
		for _, msg := range msgs {
			out, merr := opts.Marshal(msg)
			if merr != nil {
				return merr
			}
			fmt.Fprintln(e.stdout, string(out))
		}
		return err
	},
		ambientModules(e.cfg),
		coreModules(),
		fx.Populate(&m),
	)
}

func runProduce(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("produce", e)
	var tf transformFlags
	tf.register(fs)
	topic := fs.String("topic", "", "destination topic (overrides kafka.topic)")
	keyField := fs.String("key-field", "", "input field used as the message key; random UUIDs otherwise")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	tf.apply(e)
	if *topic == "" {
		*topic = e.cfg.Kafka.Topic
	}
	if *topic == "" {
		return usagef("no topic: pass -topic or set kafka.topic")
	}
	records, err := tf.records()
	if err != nil {
		return err
	}

	var (
		m        *manager.Manager
		producer *kafka.Producer
	)
	return withApp(ctx, func(ctx context.Context) error {
		results := m.TransformBatch(ctx, records, nil)
		batch := make([]kafka.ProtoMessage, 0, len(results))
		failed := 0
		for i, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(e.stderr, "record %d: %v\n", i, r.Err)
				continue
			}
			batch = append(batch, kafka.ProtoMessage{Key: recordKey(records[i], *keyField), Value: r.Message})
		}
		if len(batch) > 0 {
			if err := producer.ProduceProto(ctx, *topic, batch...); err != nil {
				return err
			}
		}
		fmt.Fprintf(e.stdout, "produced %d messages to %s\n", len(batch), *topic)
		if failed > 0 {
			return fmt.Errorf("%d of %d records failed", failed, len(records))
		}
		return nil
	},
		ambientModules(e.cfg),
		coreModules(),
		registryModules(e.cfg),
		kafkaModules(),
		fx.Populate(&m, &producer),
	)
}

// recordKey returns rec[field] as a key, or nil for a random key.
func recordKey(rec map[string]interface{}, field string) []byte {
	if field == "" {
		return nil
	}
	v, ok := rec[field]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return []byte(s)
	}
	return []byte(fmt.Sprint(v))
}
