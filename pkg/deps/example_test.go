package deps_test

import (
	"fmt"

	"github.com/matzehuels/stacklens/pkg/deps"
)

func ExampleOptions_WithDefaults() {
	opts := deps.Options{
		MaxChildren: 10,
		// MaxDepth and ExpandDepth left as zero - will get defaults
	}

	opts = opts.WithDefaults()

	fmt.Println("MaxDepth:", opts.MaxDepth)
	fmt.Println("ExpandDepth:", opts.ExpandDepth)
	fmt.Println("MaxChildren:", opts.MaxChildren)
	// Output:
	// MaxDepth: 5
	// ExpandDepth: 3
	// MaxChildren: 10
}

func ExampleStripRange() {
	for _, r := range []string{"^4.17.21", "~1.2.3", ">=2.0.0", "<3", "1.0.0", "latest"} {
		fmt.Println(deps.StripRange(r))
	}
	// Output:
	// 4.17.21
	// 1.2.3
	// 2.0.0
	// 3
	// 1.0.0
	// latest
}

func ExampleParseManifest() {
	m, err := deps.ParseManifest([]byte(`{
		"name": "my-app",
		"dependencies": {"react": "^18.2.0", "axios": "^1.6.0"},
		"devDependencies": {"vitest": "^1.0.0"}
	}`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(m.Name, m.Version)
	var names []string
	for _, d := range m.Dependencies {
		names = append(names, d.Name)
	}
	fmt.Println(names)
	fmt.Println(m.Counts()[deps.Development])
	// Output:
	// my-app latest
	// [react axios]
	// 1
}
