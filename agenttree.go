// Package agenttree provides a high-level façade over the tree engine and its
// collaborators (node registry, sensing registry, world directory & logging)
// for building tick-driven agents from declarative behavior tree definitions.
// Most applications interact with this package by:
//  1. Creating an AgentTree via New() (optionally overriding the defaults)
//  2. Adding sensors, sensables and entities to Sensing() and World()
//  3. Building or loading one tree per agent (BuildTree, LoadTree)
//  4. Ticking all agents manually (Tick) or periodically (Run)
//
// The façade delegates tick driving to engine.Engine while keeping setup and
// usage ergonomics concise.
package agenttree

import (
	"context"
	"fmt"

	"github.com/hupe1980/agenttree/definition"
	"github.com/hupe1980/agenttree/engine"
	"github.com/hupe1980/agenttree/logging"
	"github.com/hupe1980/agenttree/node"
	"github.com/hupe1980/agenttree/sensing"
	"github.com/hupe1980/agenttree/tree"
	"github.com/hupe1980/agenttree/world"
)

// Options configures the AgentTree instance.
type Options struct {
	// Engine configuration (workers, tick interval, fault policy)
	EngineConfig engine.Config

	// Registry maps definition type names to node factories.
	// Defaults to node.DefaultRegistry().
	Registry *node.Registry

	// Collaborators queried by sensor and position nodes
	// (defaults to empty in-memory registries if not provided)
	Sensing *sensing.Registry
	World   *world.Directory

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentTree is the high-level façade aggregating the engine and the
// collaborators shared by every tree it builds.
type AgentTree struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new AgentTree instance with optional overrides.
func New(optFns ...func(o *Options)) *AgentTree {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = node.DefaultRegistry()
	}
	if opts.Sensing == nil {
		opts.Sensing = sensing.NewRegistry()
	}
	if opts.World == nil {
		opts.World = world.NewDirectory()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Logger = opts.Logger
	})

	return &AgentTree{opts: opts, engine: e}
}

// BuildTree builds a tree from def and registers it under agent, replacing
// any tree previously registered under that name.
func (a *AgentTree) BuildTree(agent string, def *definition.Definition, optFns ...func(o *tree.Options)) (*tree.Tree, error) {
	nodeLogger := a.opts.Logger
	if tl, ok := nodeLogger.(*logging.TreeLogger); ok {
		nodeLogger = tl.WithComponent("node").WithTree(agent)
	}

	deps := node.Dependencies{
		Sensing: a.opts.Sensing,
		World:   a.opts.World,
		Logger:  nodeLogger,
	}

	fns := append([]func(o *tree.Options){func(o *tree.Options) {
		o.Pool = a.engine.Pool()
		o.Logger = a.opts.Logger
	}}, optFns...)
	fns = append(fns, func(o *tree.Options) { o.Name = agent })

	t, err := tree.FromDefinition(def, a.opts.Registry, deps, fns...)
	if err != nil {
		return nil, fmt.Errorf("build tree for %q: %w", agent, err)
	}

	if err := a.engine.Register(agent, t); err != nil {
		_ = t.Close()
		return nil, err
	}

	return t, nil
}

// LoadTree reads a TOML, YAML or XML definition file and builds it with
// BuildTree.
func (a *AgentTree) LoadTree(agent, path string, optFns ...func(o *tree.Options)) (*tree.Tree, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load tree for %q: %w", agent, err)
	}
	return a.BuildTree(agent, def, optFns...)
}

// Tree returns the tree registered for agent.
func (a *AgentTree) Tree(agent string) (*tree.Tree, bool) { return a.engine.Tree(agent) }

// Tick ticks every agent once.
func (a *AgentTree) Tick() error { return a.engine.Tick() }

// Run ticks every agent periodically until ctx is done. See engine.Engine.Run.
func (a *AgentTree) Run(ctx context.Context) error { return a.engine.Run(ctx) }

// Close closes every tree.
func (a *AgentTree) Close() error { return a.engine.Close() }

// Engine exposes the underlying engine, e.g. to register callbacks.
func (a *AgentTree) Engine() *engine.Engine { return a.engine }

// Sensing returns the sensing registry shared by all trees.
func (a *AgentTree) Sensing() *sensing.Registry { return a.opts.Sensing }

// World returns the entity directory shared by all trees.
func (a *AgentTree) World() *world.Directory { return a.opts.World }

// Registry returns the node registry used to build trees.
func (a *AgentTree) Registry() *node.Registry { return a.opts.Registry }
