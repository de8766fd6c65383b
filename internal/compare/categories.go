package compare

import (
	"fmt"
	"strings"

	"github.com/pulumi/json-equals/internal/jsontree"
)

// Category classifies an inequality.
type Category string

const (
	CategoryKeySet Category = "key-set-mismatch"
	CategoryLength Category = "length-mismatch"
	CategoryType   Category = "type-mismatch"
	CategoryValue  Category = "value-mismatch"
)

func agreed(path string, v jsontree.Value) string {
	return path + "==" + v.Render()
}

func keySetDiffers(path string, a, b []string) string {
	return fmt.Sprintf("%s: object keys differ, [%s] vs. [%s]",
		path, strings.Join(a, " "), strings.Join(b, " "))
}

func lengthDiffers(path string, a, b int) string {
	return fmt.Sprintf("%s: array length mismatch, %d vs %d", path, a, b)
}

func elementTypeDiffers(path string, a, b class) string {
	return fmt.Sprintf("%s: element type mismatch, expected %s but got %s", path, a, b)
}

func typeDiffers(path string, a, b jsontree.Kind) string {
	return fmt.Sprintf("%s: type mismatch, expected %s but got %s", path, a, b)
}

func valueDiffers(path string, a, b jsontree.Value) string {
	return fmt.Sprintf("%s: value mismatch, expected %s but got %s", path, a.Render(), b.Render())
}
