package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler(t *testing.T) {
	t.Run("disabled profiler does nothing", func(t *testing.T) {
		p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	tests := []struct {
		name    string
		cfg     telemetry.ProfilerConfig
		wantErr string
	}{
		{
			name:    "missing server address",
			cfg:     telemetry.ProfilerConfig{Enabled: true, ApplicationName: "fintrack"},
			wantErr: "server address",
		},
		{
			name:    "missing application name",
			cfg:     telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"},
			wantErr: "application name",
		},
		{
			name: "unknown profile type",
			cfg: telemetry.ProfilerConfig{
				Enabled:         true,
				ServerAddress:   "http://pyroscope:4040",
				ApplicationName: "fintrack",
				ProfileTypes:    []string{"cpu", "gpu"},
			},
			wantErr: `unknown profile type "gpu"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := telemetry.NewProfiler(tt.cfg, zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJobLabels(t *testing.T) {
	assert.Equal(t, map[string]string{"job": "debts", "trigger": "manual"}, telemetry.JobLabels("debts", "MANUAL"))
	assert.Equal(t, map[string]string{"job": "reports"}, telemetry.JobLabels("reports", ""))
}

func TestWithProfilingLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("labels are attached to the callback context", func(t *testing.T) {
		var got map[string]string
		telemetry.WithProfilingLabels(ctx, map[string]string{
			"Job":      "reminders",
			"owner_id": "4b0c5e0e-2d55-4d7c-a1f1-0a3f3c0b9b11",
			"empty":    "",
			"phase":    strings.Repeat("x", 200),
		}, func(ctx context.Context) {
			got = map[string]string{}
			pprof.ForLabels(ctx, func(k, v string) bool {
				got[k] = v
				return true
			})
		})

		assert.Equal(t, "reminders", got["job"])
		assert.Len(t, got["phase"], telemetry.MaxLabelValueLength)
		assert.NotContains(t, got, "owner_id")
		assert.NotContains(t, got, "empty")
	})

	t.Run("no usable labels still runs the callback", func(t *testing.T) {
		called := false
		telemetry.WithProfilingLabels(ctx, map[string]string{"run_id": "x"}, func(context.Context) {
			called = true
		})
		assert.True(t, called)
	})
}
