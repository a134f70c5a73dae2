package transformer

// Config holds the defaults of a Transformer. Values set on a mapping
// document take precedence.
type Config struct {
	// MappingFile is the mapping document to load. Empty means no explicit
	// mappings.
	MappingFile string `yaml:"mapping_file" mapstructure:"mapping_file" envconfig:"TRANSFORMER_MAPPING_FILE"`

	// DescriptorSet is a protoc --descriptor_set_out file holding the target schema.
	DescriptorSet string `yaml:"descriptor_set" mapstructure:"descriptor_set" envconfig:"TRANSFORMER_DESCRIPTOR_SET"`

	// TargetSchema is the full name of the default target message. The
	// mapping document's target_schema is used when empty.
	TargetSchema string `yaml:"target_schema" mapstructure:"target_schema" envconfig:"TRANSFORMER_TARGET_SCHEMA"`

	// WatchMapping reloads MappingFile when it changes.
	WatchMapping bool `yaml:"watch_mapping" mapstructure:"watch_mapping" envconfig:"TRANSFORMER_WATCH_MAPPING"`
}
