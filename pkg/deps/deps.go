package deps

import (
	"io"

	"github.com/charmbracelet/log"
)

const (
	DefaultMaxDepth    = 5  // Nodes deeper than this are cut off
	DefaultExpandDepth = 3  // Only nodes shallower than this get children
	DefaultMaxChildren = 20 // Dependencies expanded per node, in declaration order
	DefaultWorkers     = 20 // Manifest fetches in flight per tree
)

// Options configures tree construction.
type Options struct {
	MaxDepth    int         // Maximum node depth (default: 5)
	ExpandDepth int         // Depth at which expansion stops (default: 3)
	MaxChildren int         // Children per node (default: 20)
	Workers     int         // Concurrent manifest fetches (default: 20)
	Logger      *log.Logger // Failure logging (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ExpandDepth <= 0 {
		opts.ExpandDepth = DefaultExpandDepth
	}
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = DefaultMaxChildren
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}

// DependencyType names the manifest section a dependency was declared in.
type DependencyType string

const (
	Production  DependencyType = "production"
	Development DependencyType = "development"
	Peer        DependencyType = "peer"
	Optional    DependencyType = "optional"
	Bundled     DependencyType = "bundled"
)

// Node is one package in a dependency tree. Children are owned by their
// parent; the same package may appear under several parents.
type Node struct {
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	ResolvedVersion string         `json:"resolvedVersion,omitempty"`
	Type            DependencyType `json:"dependencyType,omitempty"`
	Depth           int            `json:"depth"`
	Direct          bool           `json:"isDirect"`
	Optional        bool           `json:"isOptional"`
	Children        []*Node        `json:"children"`
}

// Key returns name@version.
func (n *Node) Key() string { return n.Name + "@" + n.Version }

// Terminal reports whether n was never expanded: it has no resolved version.
func (n *Node) Terminal() bool { return n.ResolvedVersion == "" }

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Walk visits every node depth-first, parents before children. path holds
// the ancestors of the visited node, root first; it must not be retained.
func (n *Node) Walk(fn func(node *Node, path []*Node)) {
	if n == nil {
		return
	}
	var walk func(node *Node, path []*Node)
	walk = func(node *Node, path []*Node) {
		fn(node, path)
		path = append(path, node)
		for _, c := range node.Children {
			walk(c, path)
		}
	}
	walk(n, nil)
}

func terminal(name, version string, depth int, direct bool) *Node {
	return &Node{
		Name:     name,
		Version:  version,
		Depth:    depth,
		Direct:   direct,
		Type:     Production,
		Children: []*Node{},
	}
}
