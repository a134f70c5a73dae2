// Package schema_registry provides integration with Confluent Schema Registry
// for protobuf messages.
//
// Core Features:
//   - Context-aware HTTP client with basic auth and per-ID schema caching
//   - Schema registration (with references), lookup, compatibility checks,
//     subject listing and deletion
//   - Subject naming strategies: topic, record and topic_record
//   - Confluent wire format, including protobuf message indexes
//   - Rendering of protobuf file descriptors as .proto schema text
//   - ProtobufSerializer that registers schemas on first use
//
// Basic Usage:
//
//	client, err := schema_registry.NewClient(schema_registry.Config{
//	    URL:     "http://localhost:8081",
//	    Timeout: 10 * time.Second,
//	})
//
//	ser, err := schema_registry.NewProtobufSerializer(client, schema_registry.Config{AutoRegister: true})
//	value, err := ser.Serialize(ctx, "users", msg)
//	// value: [0x0][schema id][message indexes][protobuf payload]
//
// Registering a descriptor explicitly:
//
//	id, err := schema_registry.RegisterProtoFile(ctx, client, "users-value", md.ParentFile())
//
// Configuration via environment:
//
//	SCHEMA_REGISTRY_URL=http://localhost:8081
//	SCHEMA_REGISTRY_USERNAME=user
//	SCHEMA_REGISTRY_PASSWORD=secret
//	SCHEMA_REGISTRY_SUBJECT_STRATEGY=topic
//	SCHEMA_REGISTRY_AUTO_REGISTER=true
//
// Client and ProtobufSerializer are safe for concurrent use.
package schema_registry
