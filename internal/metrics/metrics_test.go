package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/property"
)

func TestMetricsRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.PropertyMissing(property.ArmorFactor)
	m.PropertyMissing(property.ArmorFactor)
	m.PropertyGuard(property.MaxHealth)
	m.RegistryFailed(3)
	m.SkillUseFailed("target_too_far")
	m.OutcomeEnacted("heal")
	m.OutcomeEnacted("heal")
	m.ObserveTick(3*time.Millisecond, 12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CalculatorMissing.WithLabelValues("ArmorFactor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecursionAborted.WithLabelValues("MaxHealth")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RegistryFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkillUseFailures.WithLabelValues("target_too_far")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutcomesEnacted.WithLabelValues("heal")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.Livings))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TickDuration))
}

func TestMetricsRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerServesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewServer("127.0.0.1:0", zap.NewNop())
	s.Metrics().OutcomeEnacted("damage")

	errCh, err := s.Start()
	require.NoError(t, err)

	_, err = s.Start()
	assert.Error(t, err, "second start")

	code, body := get(t, "http://"+s.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	code, body = get(t, "http://"+s.Addr()+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, `action_outcomes_enacted_total{kind="damage"} 1`), body)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stop is idempotent")
	_, open := <-errCh
	assert.False(t, open)
}

func TestServerRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewServer("127.0.0.1:0", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestServerStartBadAddr(t *testing.T) {
	s := NewServer("256.0.0.1:bad", zap.NewNop())
	_, err := s.Start()
	assert.Error(t, err)
	assert.Empty(t, s.Addr())
}
