// Package core provides the foundational data types shared by every layer of
// agenttree:
//
//   - Status / ResultCell (the outcome of a node run, shared by reference
//     between the node producing it and the parent polling it)
//   - Value (a closed tagged union of the types a behavior tree can store)
//   - Blackboard (the per-tree key/value store nodes communicate through)
//   - Parameter (a raw named parameter handed to a node at initialization)
//
// The package has no knowledge of scheduling or of concrete node variants;
// those live in the scheduler and node packages.
package core
