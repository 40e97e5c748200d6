package integrations_test

import (
	"fmt"

	"github.com/matzehuels/stacklens/pkg/integrations"
)

func ExampleNormalizeRepoURL() {
	// Various repository URL formats are normalized to HTTPS
	fmt.Println(integrations.NormalizeRepoURL("git@github.com:expressjs/express.git"))
	fmt.Println(integrations.NormalizeRepoURL("git://github.com/lodash/lodash"))
	fmt.Println(integrations.NormalizeRepoURL("git+https://github.com/facebook/react.git"))
	// Output:
	// https://github.com/expressjs/express
	// https://github.com/lodash/lodash
	// https://github.com/facebook/react
}

func ExampleEscapePackage() {
	fmt.Println(integrations.EscapePackage("express"))
	fmt.Println(integrations.EscapePackage("@babel/core"))
	// Output:
	// express
	// @babel%2Fcore
}
