// Package node implements the behavior tree node model.
//
// Every node embeds BaseNode, which carries the identity, the ordered
// children and the lifecycle flags (initialized, scheduled, executed). A node
// is initialized exactly once with Init and may then run any number of
// times; each run is a scheduler.Computation that reports its outcome through
// a core.ResultCell and marks the node executed when it finishes. Parents
// clear the flags of their children with ResetChildren once a run completes.
//
// Composite nodes (Root, Sequence, Selection, Parallel) delegate to their
// children through scheduler instructions and join on them with Await. Leaf
// nodes (Condition, SetValue, UnsetValue, SensorCheck, SensorStore,
// GetPosition, Wait, Expression) perform a single effect.
//
// Nodes are created by type name through a Registry:
//
//	reg := node.DefaultRegistry()
//	n, err := reg.New("Condition", node.Dependencies{})
//	if err != nil {
//		return err
//	}
//	err = n.Init(3, core.Params("varName1", "hp", "useValue", "true",
//		"valueType", "int", "value", "5", "comparisonType", "GreaterThan"))
package node
