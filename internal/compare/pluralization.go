package compare

import (
	"fmt"

	"github.com/pulumi/inflector"
)

// countNoun renders "1 inequality", "3 inequalities" and so on.
func countNoun(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, inflector.Pluralize(singular))
}
