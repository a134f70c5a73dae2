package transformer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/Aleph-Alpha/testdatagen/v1/mapping"
	"github.com/Aleph-Alpha/testdatagen/v1/schema"
)

// write stores value in field f of msg, branching on the field's shape:
//   - map fields take a map, one entry per key;
//   - repeated fields take a list, a single value becomes a one-element list;
//   - message elements built from an object recurse through a child
//     transformer using nested;
//   - everything else is assigned directly and converted by the schema.
//
// A map or repeated field that fails part way is cleared again, so the
// message never carries a partial list.
func (t *Transformer) write(ctx context.Context, msg schema.Message, f schema.Field, value interface{}, nested []mapping.FieldMapping, auto bool) error {
	switch {
	case f.Kind == schema.KindMap:
		if err := t.writeMap(ctx, msg, f, value, nested, auto); err != nil {
			return clearOnError(msg, f, err)
		}
		return nil

	case f.Repeated:
		for i, item := range toList(value) {
			if err := t.writeElement(ctx, msg, f, item, nested, auto); err != nil {
				return clearOnError(msg, f, fmt.Errorf("element %d: %w", i, err))
			}
		}
		return nil

	case f.Kind == schema.KindMessage:
		obj, ok := mapping.AsMap(value)
		if !ok {
			return msg.Set(f.Name, value)
		}
		child, err := t.build(ctx, msg, f, obj, nested, auto)
		if err != nil {
			return err
		}
		return msg.SetNested(f.Name, child)
	}
	return msg.Set(f.Name, value)
}

func clearOnError(msg schema.Message, f schema.Field, err error) error {
	if clearErr := msg.Clear(f.Name); clearErr != nil {
		return errors.Join(err, clearErr)
	}
	return err
}

func (t *Transformer) writeElement(ctx context.Context, msg schema.Message, f schema.Field, item interface{}, nested []mapping.FieldMapping, auto bool) error {
	if f.Kind == schema.KindMessage {
		if obj, ok := mapping.AsMap(item); ok {
			child, err := t.build(ctx, msg, f, obj, nested, auto)
			if err != nil {
				return err
			}
			return msg.AppendNested(f.Name, child)
		}
	}
	return msg.Append(f.Name, item)
}

func (t *Transformer) writeMap(ctx context.Context, msg schema.Message, f schema.Field, value interface{}, nested []mapping.FieldMapping, auto bool) error {
	entries, ok := mapping.AsMap(value)
	if !ok {
		return fmt.Errorf("%w: map field %q needs an object, got %T", ErrInvalidFieldType, f.Name, value)
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := entries[k]
		if f.MapValue == schema.KindMessage {
			if obj, ok := mapping.AsMap(v); ok {
				child, err := t.build(ctx, msg, f, obj, nested, auto)
				if err != nil {
					return err
				}
				v = child
			}
		}
		if err := msg.SetMapEntry(f.Name, k, v); err != nil {
			return err
		}
	}
	return nil
}

// build creates the message for field f from obj with a fresh child transformer.
func (t *Transformer) build(ctx context.Context, parent schema.Message, f schema.Field, obj map[string]interface{}, nested []mapping.FieldMapping, auto bool) (schema.Message, error) {
	child, err := parent.NewNested(f.Name)
	if err != nil {
		return nil, err
	}
	if err := t.child(nested, auto).fill(ctx, child, obj); err != nil {
		return nil, err
	}
	return child, nil
}

// toList returns the elements of a slice or array value. Other values,
// strings and byte slices included, become a one-element list.
func toList(value interface{}) []interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case []byte, string:
		return []interface{}{v}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []interface{}{value}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
