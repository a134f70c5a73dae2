package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a mapping document from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a YAML or JSON mapping document, checks its structure and
// semantics, and returns the validated configuration. Every problem found
// is reported in one *ConfigError.
//
// Document layout:
//
//	target_schema: shop.v1.Customer   # optional
//	field_mappings:                   # ordered
//	  full_name: name                 # shorthand for a direct mapping
//	  email:
//	    source: contact.email
//	    transform: lower
//	    required: true
//	    validation: [not_empty, "pattern:@"]
//	  nickname:
//	    type: computed
//	    function: faker.username
//	mappings:                         # list form, target is explicit
//	  - target: tags
//	    source: labels
//	    type: repeated
//	auto_mapping:
//	  enabled: true                   # default
func Parse(raw []byte) (*Config, error) {
	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("mapping: failed to decode document: %w", err)
	}
	if generic == nil {
		return nil, &ConfigError{Problems: []string{"document is empty"}}
	}
	problems, err := checkStructure(generic)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("mapping: failed to decode document: %w", err)
	}
	cfg, problems := buildConfig(documentBody(&root))
	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func documentBody(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

// child returns the value node of key in a mapping node.
func child(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func buildConfig(root *yaml.Node) (*Config, []string) {
	cfg := &Config{AutoMapping: true}
	var problems []string

	if n := child(root, "target_schema"); n != nil {
		cfg.TargetSchema = n.Value
	}
	if n := child(child(root, "auto_mapping"), "enabled"); n != nil {
		if err := n.Decode(&cfg.AutoMapping); err != nil {
			problems = append(problems, "auto_mapping.enabled: "+err.Error())
		}
	}

	if n := child(root, "field_mappings"); n != nil {
		ms, p := buildMappings(n, "field_mappings")
		cfg.Mappings = append(cfg.Mappings, ms...)
		problems = append(problems, p...)
	}
	if n := child(root, "mappings"); n != nil {
		ms, p := buildMappings(n, "mappings")
		cfg.Mappings = append(cfg.Mappings, ms...)
		problems = append(problems, p...)
	}
	return cfg, problems
}

// buildMappings reads either the keyed form (target: spec) or the list
// form ([{target: ..., ...}]) in document order.
func buildMappings(n *yaml.Node, at string) ([]FieldMapping, []string) {
	var (
		out      []FieldMapping
		problems []string
	)
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			target := n.Content[i].Value
			val := n.Content[i+1]
			where := at + "." + target

			if val.Kind == yaml.ScalarNode {
				out = append(out, FieldMapping{Target: target, Source: val.Value, Kind: KindDirect})
				continue
			}
			m, p := buildMapping(val, where)
			if m.Target == "" {
				m.Target = target
			} else if m.Target != target {
				p = append(p, fmt.Sprintf("%s: target %q does not match key %q", where, m.Target, target))
			}
			out = append(out, m)
			problems = append(problems, p...)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			m, p := buildMapping(item, fmt.Sprintf("%s[%d]", at, i))
			out = append(out, m)
			problems = append(problems, p...)
		}
	default:
		problems = append(problems, at+": expected a map or a list")
	}
	return out, problems
}

type rawMapping struct {
	Target    string        `yaml:"target"`
	Source    string        `yaml:"source"`
	Type      string        `yaml:"type"`
	Transform string        `yaml:"transform"`
	Function  string        `yaml:"function"`
	Args      []interface{} `yaml:"args"`
	Default   interface{}   `yaml:"default"`
	Required  bool          `yaml:"required"`
	Condition string        `yaml:"condition"`
}

type rawBranch struct {
	When      string        `yaml:"when"`
	Condition string        `yaml:"condition"`
	Value     interface{}   `yaml:"value"`
	Function  string        `yaml:"function"`
	Args      []interface{} `yaml:"args"`
}

func buildMapping(n *yaml.Node, at string) (FieldMapping, []string) {
	var (
		raw      rawMapping
		problems []string
	)
	if err := n.Decode(&raw); err != nil {
		return FieldMapping{}, []string{at + ": " + err.Error()}
	}

	m := FieldMapping{
		Target:     raw.Target,
		Source:     raw.Source,
		Kind:       Kind(raw.Type),
		Function:   raw.Function,
		Args:       raw.Args,
		Default:    raw.Default,
		HasDefault: child(n, "default") != nil,
		Required:   raw.Required,
		Condition:  raw.Condition,
	}
	if raw.Transform != "" {
		if m.Function != "" && m.Function != raw.Transform {
			problems = append(problems, at+": transform and function name different functions")
		}
		m.Function = raw.Transform
	}

	if v := child(n, "validation"); v != nil {
		switch v.Kind {
		case yaml.ScalarNode:
			m.Validation = []string{v.Value}
		default:
			if err := v.Decode(&m.Validation); err != nil {
				problems = append(problems, at+".validation: "+err.Error())
			}
		}
	}

	if c := child(n, "conditions"); c != nil {
		for i, item := range c.Content {
			var rb rawBranch
			if err := item.Decode(&rb); err != nil {
				problems = append(problems, fmt.Sprintf("%s.conditions[%d]: %v", at, i, err))
				continue
			}
			when := rb.When
			if when == "" {
				when = rb.Condition
			}
			m.Conditions = append(m.Conditions, Branch{
				When:     when,
				Value:    rb.Value,
				HasValue: child(item, "value") != nil,
				Function: rb.Function,
				Args:     rb.Args,
			})
		}
	}

	if nested := child(n, "nested"); nested != nil {
		ms, p := buildMappings(nested, at+".nested")
		m.Nested = ms
		problems = append(problems, p...)
	}

	if m.Kind == "" {
		m.Kind = inferKind(m)
	}
	return m, problems
}

// inferKind picks a kind for mappings that do not declare one.
func inferKind(m FieldMapping) Kind {
	switch {
	case len(m.Conditions) > 0:
		return KindConditional
	case len(m.Nested) > 0:
		return KindNested
	case m.Function != "" && m.Source == "":
		return KindComputed
	default:
		return KindDirect
	}
}
