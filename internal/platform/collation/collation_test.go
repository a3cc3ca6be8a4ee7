package collation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortBy_SpanishRules(t *testing.T) {
	names := []string{"Persa", "bulldog Francés", "Ágata", "caniche", "Bengalí"}
	SortBy(names, func(s string) string { return s })

	assert.Equal(t, []string{"Ágata", "Bengalí", "bulldog Francés", "caniche", "Persa"}, names)
}
