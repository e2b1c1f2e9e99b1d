package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New()

	c.Submitted("shorten_url")
	c.Submitted("shorten_url")
	c.Completed("shorten_url", ResultSuccess, 120*time.Millisecond)
	c.Completed("shorten_url", ResultConfigError, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.submitted.WithLabelValues("shorten_url")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.completed.WithLabelValues("shorten_url", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.completed.WithLabelValues("shorten_url", ResultConfigError)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))

	expected := `
# HELP see_operations_submitted_total Total number of remote operations submitted
# TYPE see_operations_submitted_total counter
see_operations_submitted_total{kind="shorten_url"} 2
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "see_operations_submitted_total"))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Submitted("delete_file")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.submitted.WithLabelValues("delete_file")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.submitted.WithLabelValues("delete_file")))
}

func TestCollector_WriteToFile(t *testing.T) {
	c := New()
	c.Submitted("upload_file")
	c.Completed("upload_file", ResultRemoteError, time.Second)

	path := filepath.Join(t.TempDir(), "see.prom")
	require.NoError(t, c.WriteToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `see_operations_completed_total{kind="upload_file",result="remote_error"} 1`)
	assert.Contains(t, string(data), "see_operation_duration_seconds_bucket")
}
