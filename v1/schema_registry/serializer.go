package schema_registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ProtobufSerializer encodes protobuf messages in the Confluent wire format,
// registering (or looking up) the message's schema on first use per subject.
type ProtobufSerializer struct {
	registry     Registry
	strategy     SubjectNameStrategy
	autoRegister bool

	store IDStore

	mu  sync.Mutex
	ids map[string]int
}

// IDStore persists schema IDs across serializer instances, keyed by
// subject and schema text.
type IDStore interface {
	LookupSchemaID(ctx context.Context, subject, schema string) (int, bool)
	StoreSchemaID(ctx context.Context, subject, schema string, id int)
}

// SerializerOption customises a ProtobufSerializer.
type SerializerOption func(*ProtobufSerializer)

// WithIDStore consults store before registering a schema and records the
// IDs the registry assigns.
func WithIDStore(store IDStore) SerializerOption {
	return func(s *ProtobufSerializer) { s.store = store }
}

// NewProtobufSerializer creates a serializer over reg. The strategy and
// auto-registration come from cfg.
func NewProtobufSerializer(reg Registry, cfg Config, opts ...SerializerOption) (*ProtobufSerializer, error) {
	strategy, err := ParseSubjectNameStrategy(cfg.SubjectStrategy)
	if err != nil {
		return nil, err
	}
	s := &ProtobufSerializer{
		registry:     reg,
		strategy:     strategy,
		autoRegister: cfg.AutoRegister,
		ids:          make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Subject returns the subject msg is registered under for topic.
func (s *ProtobufSerializer) Subject(topic string, msg proto.Message) string {
	return s.strategy.Subject(topic, string(msg.ProtoReflect().Descriptor().FullName()), false)
}

// Serialize marshals msg and frames it for topic.
func (s *ProtobufSerializer) Serialize(ctx context.Context, topic string, msg proto.Message) ([]byte, error) {
	md := msg.ProtoReflect().Descriptor()
	id, err := s.schemaID(ctx, s.Subject(topic, msg), md)
	if err != nil {
		return nil, err
	}
	payload, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("schema_registry: marshal %s: %w", md.FullName(), err)
	}
	return EncodeProtobuf(id, MessageIndexes(md), payload), nil
}

func (s *ProtobufSerializer) schemaID(ctx context.Context, subject string, md protoreflect.MessageDescriptor) (int, error) {
	key := subject + "|" + string(md.FullName())
	s.mu.Lock()
	id, ok := s.ids[key]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	if s.autoRegister {
		var err error
		id, err = s.register(ctx, subject, md.ParentFile())
		if err != nil {
			return 0, err
		}
	} else {
		meta, err := s.registry.GetLatestSchema(ctx, subject)
		if err != nil {
			return 0, fmt.Errorf("schema_registry: no schema registered for %q: %w", subject, err)
		}
		id = meta.ID
	}

	s.mu.Lock()
	s.ids[key] = id
	s.mu.Unlock()
	return id, nil
}

func (s *ProtobufSerializer) register(ctx context.Context, subject string, fd protoreflect.FileDescriptor) (int, error) {
	if s.store == nil {
		return RegisterProtoFile(ctx, s.registry, subject, fd)
	}
	text := ProtoSchema(fd)
	if id, ok := s.store.LookupSchemaID(ctx, subject, text); ok {
		return id, nil
	}
	id, err := RegisterProtoFile(ctx, s.registry, subject, fd)
	if err != nil {
		return 0, err
	}
	s.store.StoreSchemaID(ctx, subject, text, id)
	return id, nil
}

// Deserialize unframes data into msg and returns the schema ID it was
// written with.
func Deserialize(data []byte, msg proto.Message) (int, error) {
	id, _, payload, err := DecodeProtobuf(data)
	if err != nil {
		return 0, err
	}
	if err := proto.Unmarshal(payload, msg); err != nil {
		return 0, fmt.Errorf("schema_registry: unmarshal: %w", err)
	}
	return id, nil
}

// RegisterProtoFile registers fd under subject. Imported files are
// registered first under their own path as subject and referenced;
// google/protobuf well-known types are built into the registry and skipped.
func RegisterProtoFile(ctx context.Context, reg Registry, subject string, fd protoreflect.FileDescriptor) (int, error) {
	refs, err := registerImports(ctx, reg, fd)
	if err != nil {
		return 0, err
	}
	id, err := reg.RegisterSchema(ctx, subject, ProtoSchema(fd), TypeProtobuf, refs...)
	if err != nil {
		return 0, fmt.Errorf("schema_registry: register %s under %q: %w", fd.Path(), subject, err)
	}
	return id, nil
}

func registerImports(ctx context.Context, reg Registry, fd protoreflect.FileDescriptor) ([]Reference, error) {
	var refs []Reference
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		dep := imports.Get(i).FileDescriptor
		if strings.HasPrefix(dep.Path(), "google/protobuf/") {
			continue
		}
		if _, err := RegisterProtoFile(ctx, reg, dep.Path(), dep); err != nil {
			return nil, err
		}
		meta, err := reg.GetLatestSchema(ctx, dep.Path())
		if err != nil {
			return nil, fmt.Errorf("schema_registry: resolve reference %s: %w", dep.Path(), err)
		}
		refs = append(refs, Reference{Name: dep.Path(), Subject: dep.Path(), Version: meta.Version})
	}
	return refs, nil
}
