package healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthChecker_LivenessCheck(t *testing.T) {
	// Liveness check 不依赖外部服务，应该总是成功
	hc := NewHealthChecker("v1")

	result := hc.LivenessCheck()

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "running", result.Checks["service"])
	assert.Equal(t, "v1", result.Version)
}

func TestHealthChecker_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]error
		wantStatus string
	}{
		{name: "no checks", checks: map[string]error{}, wantStatus: "ok"},
		{name: "all ok", checks: map[string]error{"checkpoint": nil}, wantStatus: "ok"},
		{name: "one failing", checks: map[string]error{"checkpoint": errors.New("down"), "other": nil}, wantStatus: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker("")
			for name, err := range tt.checks {
				err := err
				hc.Register(name, PingerFunc(func(ctx context.Context) error {
					_, ok := ctx.Deadline()
					assert.True(t, ok)
					return err
				}))
			}

			result := hc.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Len(t, result.Checks, len(tt.checks))
			for name, err := range tt.checks {
				if err != nil {
					assert.Equal(t, "error: "+err.Error(), result.Checks[name])
				} else {
					assert.Equal(t, "ok", result.Checks[name])
				}
			}
		})
	}
}

func TestHealthChecker_RegisterOverrides(t *testing.T) {
	hc := NewHealthChecker("")
	hc.Register("checkpoint", PingerFunc(func(context.Context) error { return errors.New("down") }))
	hc.Register("checkpoint", PingerFunc(func(context.Context) error { return nil }))

	result := hc.ReadinessCheck(nil)
	assert.Equal(t, "ok", result.Status)
	assert.Len(t, result.Checks, 1)
}
