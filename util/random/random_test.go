package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeq(t *testing.T) {
	a, b := Seq(32), Seq(32)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	for _, r := range a {
		assert.True(t, strings.ContainsRune(alphanumeric, r))
	}
	assert.Empty(t, Seq(0))
}
