package schema

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Logger defines the logging contract the catalog depends on.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Catalog resolves message schemas from compiled descriptor sets, as
// written by `protoc --include_imports --descriptor_set_out=...`.
// Messages linked into the binary are always resolvable.
type Catalog struct {
	group singleflight.Group

	mu       sync.RWMutex
	files    *protoregistry.Files
	loaded   map[string][]string
	messages map[string]struct{}

	logger Logger
}

// NewCatalog creates an empty catalog. log may be nil.
func NewCatalog(log Logger) *Catalog {
	return &Catalog{
		files:    new(protoregistry.Files),
		loaded:   make(map[string][]string),
		messages: make(map[string]struct{}),
		logger:   log,
	}
}

// LoadFile reads a binary FileDescriptorSet from path and returns the full
// names of the messages it declares. A file is read once; concurrent loads
// of the same path share one read.
func (c *Catalog) LoadFile(path string) ([]string, error) {
	c.mu.RLock()
	names, ok := c.loaded[path]
	c.mu.RUnlock()
	if ok {
		return names, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("schema: failed to read descriptor set %s: %w", path, err)
		}
		var set descriptorpb.FileDescriptorSet
		if err := proto.Unmarshal(raw, &set); err != nil {
			return nil, fmt.Errorf("schema: failed to decode descriptor set %s: %w", path, err)
		}
		names, err := c.LoadSet(&set)
		if err != nil {
			return nil, fmt.Errorf("schema: %s: %w", path, err)
		}
		c.mu.Lock()
		c.loaded[path] = names
		c.mu.Unlock()
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// LoadSet registers the files of set. Files already known by path are kept
// as they are. It returns the full names of every message declared in set.
func (c *Catalog) LoadSet(set *descriptorpb.FileDescriptorSet) ([]string, error) {
	files, err := protodesc.NewFiles(set)
	if err != nil {
		return nil, fmt.Errorf("failed to build descriptors: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		names   []string
		regErr  error
		skipped int
	)
	files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		collectMessages(fd.Messages(), &names)
		if _, err := c.files.FindFileByPath(fd.Path()); err == nil {
			skipped++
			return true
		}
		if err := c.files.RegisterFile(fd); err != nil {
			regErr = fmt.Errorf("failed to register %s: %w", fd.Path(), err)
			return false
		}
		return true
	})
	if regErr != nil {
		return nil, regErr
	}

	for _, n := range names {
		c.messages[n] = struct{}{}
	}
	sort.Strings(names)

	if c.logger != nil {
		c.logger.Info("Descriptor set loaded", nil, map[string]interface{}{
			"messages":      len(names),
			"skipped_files": skipped,
		})
	}
	return names, nil
}

func collectMessages(mds protoreflect.MessageDescriptors, out *[]string) {
	for i := 0; i < mds.Len(); i++ {
		md := mds.Get(i)
		if md.IsMapEntry() {
			continue
		}
		*out = append(*out, string(md.FullName()))
		collectMessages(md.Messages(), out)
	}
}

// Descriptor resolves a message descriptor by full name, looking at loaded
// descriptor sets first and the messages linked into the binary second.
func (c *Catalog) Descriptor(fullName string) (protoreflect.MessageDescriptor, error) {
	name := protoreflect.FullName(fullName)
	if !name.IsValid() {
		return nil, fmt.Errorf("%w: invalid name %q", ErrMessageNotFound, fullName)
	}

	c.mu.RLock()
	d, err := c.files.FindDescriptorByName(name)
	c.mu.RUnlock()
	if err != nil {
		d, err = protoregistry.GlobalFiles.FindDescriptorByName(name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, fullName)
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a message", ErrMessageNotFound, fullName)
	}
	return md, nil
}

// Lookup returns the schema of a message by full name.
func (c *Catalog) Lookup(fullName string) (MessageSchema, error) {
	md, err := c.Descriptor(fullName)
	if err != nil {
		return nil, err
	}
	return FromDescriptor(md), nil
}

// Messages lists every message loaded from descriptor sets, sorted.
func (c *Catalog) Messages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for n := range c.messages {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
