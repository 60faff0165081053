package scene

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound = errors.New("scene: node not found")
	ErrRootNode     = errors.New("scene: operation not allowed on root")
	ErrCycle        = errors.New("scene: node cannot be its own ancestor")
	ErrHasChildren  = errors.New("scene: node still has children")
)

// NodeID addresses a node in a Graph.
type NodeID int

type node struct {
	name     string
	local    Transform
	parent   NodeID
	children []NodeID
}

// Graph is a tree of transform nodes rooted at Root.
//
// Graph is not safe for concurrent use; callers serialize access.
type Graph struct {
	nodes map[NodeID]*node
	next  NodeID
	root  NodeID
}

// New creates a graph holding only a root node at the identity transform.
func New() *Graph {
	g := &Graph{nodes: make(map[NodeID]*node)}
	g.root = g.alloc("root", -1)
	return g
}

func (g *Graph) alloc(name string, parent NodeID) NodeID {
	id := g.next
	g.next++
	g.nodes[id] = &node{name: name, local: Identity(), parent: parent}
	return id
}

func (g *Graph) get(id NodeID) (*node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return n, nil
}

// Root returns the root node.
func (g *Graph) Root() NodeID {
	return g.root
}

// Len returns the number of nodes, root included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Name returns the node's debug name.
func (g *Graph) Name(id NodeID) string {
	if n, ok := g.nodes[id]; ok {
		return n.name
	}
	return ""
}

// NewNode creates a node under parent with an identity local transform.
func (g *Graph) NewNode(name string, parent NodeID) (NodeID, error) {
	p, err := g.get(parent)
	if err != nil {
		return 0, err
	}
	id := g.alloc(name, parent)
	p.children = append(p.children, id)
	return id, nil
}

// Remove deletes a childless, non-root node from the graph.
func (g *Graph) Remove(id NodeID) error {
	if id == g.root {
		return ErrRootNode
	}
	n, err := g.get(id)
	if err != nil {
		return err
	}
	if len(n.children) > 0 {
		return fmt.Errorf("%w: %s has %d", ErrHasChildren, n.name, len(n.children))
	}
	g.detach(id, n)
	delete(g.nodes, id)
	return nil
}

// Parent returns the node's parent.
func (g *Graph) Parent(id NodeID) (NodeID, error) {
	if id == g.root {
		return 0, ErrRootNode
	}
	n, err := g.get(id)
	if err != nil {
		return 0, err
	}
	return n.parent, nil
}

// Children returns a copy of the node's child list.
func (g *Graph) Children(id NodeID) ([]NodeID, error) {
	n, err := g.get(id)
	if err != nil {
		return nil, err
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out, nil
}

// SetParent moves id under parent. The local transform is kept as is, so
// the node's world transform changes unless the caller recomputes it.
func (g *Graph) SetParent(id, parent NodeID) error {
	if id == g.root {
		return ErrRootNode
	}
	n, err := g.get(id)
	if err != nil {
		return err
	}
	p, err := g.get(parent)
	if err != nil {
		return err
	}
	for a := parent; a != -1; a = g.nodes[a].parent {
		if a == id {
			return ErrCycle
		}
	}
	if n.parent == parent {
		return nil
	}
	g.detach(id, n)
	n.parent = parent
	p.children = append(p.children, id)
	return nil
}

func (g *Graph) detach(id NodeID, n *node) {
	p, ok := g.nodes[n.parent]
	if !ok {
		return
	}
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
}

// Local returns the node's transform relative to its parent.
func (g *Graph) Local(id NodeID) (Transform, error) {
	n, err := g.get(id)
	if err != nil {
		return Transform{}, err
	}
	return n.local, nil
}

// SetLocal replaces the node's transform relative to its parent.
func (g *Graph) SetLocal(id NodeID, t Transform) error {
	n, err := g.get(id)
	if err != nil {
		return err
	}
	n.local = t
	return nil
}

// World returns the node's transform composed through every ancestor.
func (g *Graph) World(id NodeID) (Transform, error) {
	n, err := g.get(id)
	if err != nil {
		return Transform{}, err
	}
	w := n.local
	for p := n.parent; p != -1; {
		pn := g.nodes[p]
		w = pn.local.Mul(w)
		p = pn.parent
	}
	return w, nil
}

// Attach moves id under parent while keeping its world transform.
func (g *Graph) Attach(id, parent NodeID) error {
	world, err := g.World(id)
	if err != nil {
		return err
	}
	if err := g.SetParent(id, parent); err != nil {
		return err
	}
	pw, err := g.World(parent)
	if err != nil {
		return err
	}
	return g.SetLocal(id, pw.Inverse().Mul(world))
}
