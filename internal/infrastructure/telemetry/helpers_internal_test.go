package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(2).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "ParentBased")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM debts":                "SELECT",
		"  insert into reminders values (1)": "INSERT",
		"UPDATE saving_goals SET status = ?": "UPDATE",
		"delete from notifications":          "DELETE",
		"CREATE TABLE x (id int)":            "OTHER",
		"":                                   "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Job Name":  "debts",
		"trigger":   "manual",
		"trace-id":  "abc",
		"!!!":       "dropped",
		"phase":     "",
		"owner_id":  "x",
		"ph@se_two": "load",
	})
	assert.Equal(t, []string{"job_name", "debts", "phse_two", "load", "trigger", "manual"}, pairs)
}

func TestResolveProfileTypes(t *testing.T) {
	defaults, err := resolveProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace, pyroscope.ProfileAllocSpace}, defaults)

	types, err := resolveProfileTypes([]string{"goroutines", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileGoroutines, pyroscope.ProfileMutexCount}, types)

	_, err = resolveProfileTypes([]string{"bogus"})
	assert.Error(t, err)
}
