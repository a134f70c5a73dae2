package capability

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Capability names one class of side effect.
type Capability string

const (
	FileSystem  Capability = "filesystem"
	Network     Capability = "network"
	Process     Capability = "process"
	Environment Capability = "environment"
	Clock       Capability = "clock"
	Random      Capability = "random"
)

// ErrDenied is returned by Require when the context lacks a grant.
var ErrDenied = errors.New("capability: denied")

var dangerous = map[Capability]struct{}{
	FileSystem:  {},
	Network:     {},
	Process:     {},
	Environment: {},
}

var known = map[Capability]struct{}{
	FileSystem:  {},
	Network:     {},
	Process:     {},
	Environment: {},
	Clock:       {},
	Random:      {},
}

// IsDangerous reports whether c gives access to I/O, processes or the environment.
func IsDangerous(c Capability) bool {
	_, ok := dangerous[c]
	return ok
}

// IsKnown reports whether c is one of the capabilities defined in this package.
func IsKnown(c Capability) bool {
	_, ok := known[c]
	return ok
}

// Set is an unordered collection of capabilities. The zero value is an empty set.
type Set map[Capability]struct{}

// NewSet builds a Set from caps.
func NewSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities sorted by name.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dangerous returns the dangerous members of the set, sorted.
func (s Set) Dangerous() []Capability {
	var out []Capability
	for _, c := range s.List() {
		if IsDangerous(c) {
			out = append(out, c)
		}
	}
	return out
}

// Restricted returns a copy of s without any dangerous capability.
func (s Set) Restricted() Set {
	out := make(Set, len(s))
	for c := range s {
		if !IsDangerous(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

type grantsKey struct{}

// WithGrants returns a child context carrying grants.
func WithGrants(ctx context.Context, grants Set) context.Context {
	return context.WithValue(ctx, grantsKey{}, grants.Clone())
}

// FromContext returns the grants carried by ctx, or an empty set.
func FromContext(ctx context.Context) Set {
	if ctx == nil {
		return Set{}
	}
	if s, ok := ctx.Value(grantsKey{}).(Set); ok {
		return s
	}
	return Set{}
}

// Require returns ErrDenied unless ctx grants c.
//
//	func readFixture(ctx context.Context, path string) (string, error) {
//	    if err := capability.Require(ctx, capability.FileSystem); err != nil {
//	        return "", err
//	    }
//	    ...
//	}
func Require(ctx context.Context, c Capability) error {
	if FromContext(ctx).Has(c) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDenied, c)
}
