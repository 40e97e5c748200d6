package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/stacklens/pkg/httputil"
)

func ExamplePolicy_Do() {
	policy := httputil.Policy{Attempts: 3, Delay: time.Millisecond}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return httputil.Retryable(errors.New("502 bad gateway"))
		}
		return nil
	})

	fmt.Println("Calls:", calls)
	fmt.Println("Error:", err)
	// Output:
	// Calls: 3
	// Error: <nil>
}
