package schema_registry

import (
	"fmt"
	"strings"
)

// SubjectNameStrategy derives the subject a schema is registered under.
type SubjectNameStrategy string

const (
	// TopicStrategy uses <topic>-key or <topic>-value.
	TopicStrategy SubjectNameStrategy = "topic"

	// RecordStrategy uses the fully-qualified message name.
	RecordStrategy SubjectNameStrategy = "record"

	// TopicRecordStrategy uses <topic>-<fully-qualified message name>.
	TopicRecordStrategy SubjectNameStrategy = "topic_record"
)

// ParseSubjectNameStrategy converts a strategy name. Empty means TopicStrategy.
func ParseSubjectNameStrategy(s string) (SubjectNameStrategy, error) {
	switch SubjectNameStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TopicStrategy:
		return TopicStrategy, nil
	case RecordStrategy:
		return RecordStrategy, nil
	case TopicRecordStrategy:
		return TopicRecordStrategy, nil
	}
	return "", fmt.Errorf("schema_registry: unknown subject name strategy %q", s)
}

// Subject returns the subject for a record of type recordName written to
// topic, as key or value.
func (s SubjectNameStrategy) Subject(topic, recordName string, key bool) string {
	switch s {
	case RecordStrategy:
		return recordName
	case TopicRecordStrategy:
		return topic + "-" + recordName
	}
	return TopicSubject(topic, key)
}

// TopicSubject is <topic>-key or <topic>-value.
func TopicSubject(topic string, key bool) string {
	if key {
		return topic + "-key"
	}
	return topic + "-value"
}
