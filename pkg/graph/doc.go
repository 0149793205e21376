// Package graph provides the data model of the layout engine: vertices,
// syntactic edges, deduplicated arcs, digraphs with collapse/expand support,
// and the collection tree that scopes nested layout requests.
//
// # Overview
//
// A [Vertex] is an identity object shared across digraphs; it owns its
// geometry (position, shape outline, anchors) but not its adjacency. Each
// [Digraph] keys membership and adjacency by vertex identity, so a vertex
// can belong to several digraphs simultaneously and removal from one digraph
// does not affect the others.
//
// An [Arc] is the unique directed connection between an ordered vertex pair
// inside one digraph. Multigraphs are disallowed at the digraph level;
// multiplicity is instead modeled by the arc's SyntacticEdges list, which
// records every user-specified [Edge] that collapsed into the arc, keeping
// per-edge options and paths available for later lookup.
//
// [Digraph.Collapse] replaces a vertex subset by a single placeholder
// vertex, redirecting boundary arcs and dropping interior loops;
// [Digraph.Expand] is its structural inverse. Together they are the
// foundation of graph coarsening and subgraph-as-node handling.
//
// A [Collection] groups vertices and edges into a named tree of sublayouts,
// same-layer sets, and subgraph-node regions consumed by the layout
// pipeline.
//
// Algorithm-private per-vertex or per-arc data lives in [Storage] side
// tables scoped to a single algorithm invocation, never on the shared types.
package graph
