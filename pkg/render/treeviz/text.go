package treeviz

import (
	"strings"

	"github.com/matzehuels/stacklens/pkg/deps"
)

// Text draws tree with box-drawing connectors, one package per line.
// Terminal nodes below the root are marked with a trailing "*".
func Text(tree *deps.Node) string {
	if tree == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(tree.Key())
	b.WriteByte('\n')
	writeChildren(&b, tree.Children, "")
	return b.String()
}

func writeChildren(b *strings.Builder, children []*deps.Node, prefix string) {
	for i, c := range children {
		connector, indent := "├── ", "│   "
		if i == len(children)-1 {
			connector, indent = "└── ", "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(c.Key())
		if c.Terminal() {
			b.WriteString(" *")
		}
		b.WriteByte('\n')
		writeChildren(b, c.Children, prefix+indent)
	}
}
