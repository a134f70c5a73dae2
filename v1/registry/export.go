package registry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export document.
const ExportVersion = "1"

// FunctionMetadata is the serialisable part of a RegisteredFunction.
// Callables are never exported.
type FunctionMetadata struct {
	Name            string   `yaml:"name"`
	Namespace       string   `yaml:"namespace,omitempty"`
	Description     string   `yaml:"description"`
	Category        Category `yaml:"category"`
	Tags            []string `yaml:"tags,omitempty"`
	IsSafe          bool     `yaml:"is_safe"`
	RequiresContext bool     `yaml:"requires_context"`
	Version         string   `yaml:"version"`
	Aliases         []string `yaml:"aliases,omitempty"`
	InputTypes      []string `yaml:"input_types,omitempty"`
	OutputType      string   `yaml:"output_type,omitempty"`
	Capabilities    []string `yaml:"capabilities,omitempty"`
	Signature       string   `yaml:"signature"`
}

// FullName is namespace.name for namespaced functions and name otherwise.
func (m FunctionMetadata) FullName() string {
	return fullName(m.Namespace, m.Name)
}

// ExportDocument is the audit document written by Export.
type ExportDocument struct {
	Version    string             `yaml:"version"`
	ExportedAt time.Time          `yaml:"exported_at"`
	Functions  []FunctionMetadata `yaml:"functions"`
}

// Resolver supplies the callable for an imported entry. Returning false
// skips the entry.
type Resolver func(meta FunctionMetadata) (interface{}, bool)

// ImportReport lists what Import re-registered and what it skipped.
type ImportReport struct {
	Registered []string
	Skipped    []string
}

// Metadata returns the metadata of every function, sorted by full name.
func (r *Registry) Metadata() []FunctionMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FunctionMetadata, 0, len(r.functions))
	for _, name := range r.namesLocked() {
		out = append(out, toMetadata(r.functions[name]))
	}
	return out
}

func toMetadata(fn *RegisteredFunction) FunctionMetadata {
	m := FunctionMetadata{
		Name:            fn.Name,
		Namespace:       fn.Namespace,
		Description:     fn.Description,
		Category:        fn.Category,
		Tags:            fn.TagList(),
		IsSafe:          fn.IsSafe,
		RequiresContext: fn.RequiresContext,
		Version:         fn.Version,
		Aliases:         append([]string(nil), fn.Aliases...),
		Signature:       fn.Signature.String(),
	}
	sort.Strings(m.Aliases)
	for _, t := range fn.InputTypes {
		m.InputTypes = append(m.InputTypes, t.String())
	}
	if fn.OutputType != nil {
		m.OutputType = fn.OutputType.String()
	}
	for _, c := range fn.Capabilities.List() {
		m.Capabilities = append(m.Capabilities, string(c))
	}
	return m
}

// Export writes the registry metadata as YAML.
func (r *Registry) Export(w io.Writer) error {
	doc := ExportDocument{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Functions:  r.Metadata(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("registry: failed to encode export: %w", err)
	}
	return enc.Close()
}

// ExportFile writes the registry metadata to path.
func (r *Registry) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("registry: failed to create export file %s: %w", path, err)
	}
	if err := r.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import re-registers the functions described in an export document.
// Import is best effort: entries the resolver cannot supply and entries
// Register refuses end up in ImportReport.Skipped. Only a malformed
// document is an error.
func (r *Registry) Import(rd io.Reader, resolve Resolver) (ImportReport, error) {
	var doc ExportDocument
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		return ImportReport{}, fmt.Errorf("registry: failed to decode import: %w", err)
	}

	var report ImportReport
	for _, meta := range doc.Functions {
		fn, ok := resolve(meta)
		if !ok {
			report.Skipped = append(report.Skipped, meta.FullName())
			continue
		}

		opts := []RegisterOption{
			WithTags(meta.Tags...),
			WithSafe(meta.IsSafe),
			WithNamespace(meta.Namespace),
			WithAliases(meta.Aliases...),
			WithVersion(meta.Version),
			WithOverwrite(),
		}
		if meta.RequiresContext {
			opts = append(opts, WithRequiresContext())
		}
		for _, c := range meta.Capabilities {
			opts = append(opts, WithCapabilities(capability.Capability(c)))
		}

		if r.Register(meta.Name, fn, meta.Description, meta.Category, opts...) {
			report.Registered = append(report.Registered, meta.FullName())
		} else {
			report.Skipped = append(report.Skipped, meta.FullName())
		}
	}

	r.logger.Info("Function metadata imported", nil, map[string]interface{}{
		"registered": len(report.Registered),
		"skipped":    len(report.Skipped),
	})
	return report, nil
}

// ImportFile is Import reading from path.
func (r *Registry) ImportFile(path string, resolve Resolver) (ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("registry: failed to open import file %s: %w", path, err)
	}
	defer f.Close()
	return r.Import(f, resolve)
}
