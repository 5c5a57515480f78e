// Package definition describes behavior trees as data and decodes them from
// TOML, YAML or the legacy XML behavior format.
//
// A Definition is a flat list of nodes, each with an integer id, a type name,
// named parameters and the ids of its children. Validate checks the graph
// structure; resolving types and building executable nodes is left to the
// tree package.
//
// TOML example:
//
//	[[node]]
//	id = 1
//	type = "Root"
//	children = [2]
//
//	[[node]]
//	id = 2
//	type = "SetValue"
//	params = { varName = "hp", valueType = "int", value = "10" }
package definition
