package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessibleURLs(t *testing.T) {
	assert.Equal(t, []string{"http://127.0.0.1:8110"}, AccessibleURLs("127.0.0.1:8110"))
	assert.Equal(t, []string{"http://example.lan:80"}, AccessibleURLs("example.lan:80"))

	urls := AccessibleURLs("0.0.0.0:8111")
	assert.Equal(t, "http://localhost:8111", urls[0])
	for _, u := range urls {
		assert.True(t, strings.HasSuffix(u, ":8111"), u)
	}

	urls = AccessibleURLs(":9000")
	assert.Equal(t, "http://localhost:9000", urls[0])
}
