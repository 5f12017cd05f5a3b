// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDefault(t *testing.T) {
	// the default singleton swallows everything without panicking
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"x"}).AddWithLabel(1, map[string]string{"x": "y"})
	Gauge("noop_gauge").Set(42)
	Histogram("noop_hist", nil).Observe(7)

	// no handler until a real backend is initialized
	assert.Nil(t, HTTPHandler())
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	loader := LazyLoad(func() int {
		calls++
		return 7
	})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 7, loader())
	assert.Equal(t, 7, loader())
	assert.Equal(t, 1, calls)
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("test_count").Add(3)
	CounterVec("test_count_vec", []string{"op"}).AddWithLabel(2, map[string]string{"op": "stake"})
	Gauge("test_gauge").Set(11)
	Histogram("test_hist", BucketHTTPReqs).Observe(5)

	// same name resolves to the same meter
	Counter("test_count").Add(1)

	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.True(t, strings.Contains(text, "test_count"), "counter missing from exposition")
	assert.True(t, strings.Contains(text, "test_gauge"), "gauge missing from exposition")
}
