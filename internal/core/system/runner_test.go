package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSystem struct {
	name  string
	phase Phase
	log   *[]string
}

func (s recordingSystem) Phase() Phase { return s.phase }

func (s recordingSystem) Update(time.Duration) { *s.log = append(*s.log, s.name) }

func TestRunnerOrdersByPhaseStable(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recordingSystem{"cleanup", PhaseCleanup, &log})
	r.Register(recordingSystem{"timers", PhaseUpdate, &log})
	r.Register(recordingSystem{"input", PhaseInput, &log})
	r.Register(recordingSystem{"effects", PhaseUpdate, &log})

	r.Tick(200 * time.Millisecond)
	assert.Equal(t, []string{"input", "timers", "effects", "cleanup"}, log)
	assert.Equal(t, uint64(1), r.Ticks())

	log = nil
	r.TickPhase(PhaseUpdate, 0)
	assert.Equal(t, []string{"timers", "effects"}, log)
	assert.Equal(t, uint64(1), r.Ticks(), "TickPhase is not a full tick")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "persist", PhasePersist.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
