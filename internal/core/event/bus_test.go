package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dolgo/server/internal/core/ecs"
)

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []LivingDied
	Subscribe(b, func(ev LivingDied) { got = append(got, ev) })

	Emit(b, LivingDied{ID: ecs.NewEntityID(1, 0)})
	Emit(b, LivingDied{ID: ecs.NewEntityID(2, 0)})
	assert.Equal(t, 2, Pending[LivingDied](b))
	assert.Zero(t, b.DispatchAll(), "front buffer is empty until swapped")

	b.SwapBuffers()
	assert.Equal(t, 2, b.DispatchAll())
	assert.Len(t, got, 2)
	assert.Zero(t, Pending[LivingDied](b))

	b.SwapBuffers()
	assert.Zero(t, b.DispatchAll())
}

func TestBusTypeOrderIsStable(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(HealthChanged) { order = append(order, "health") })
	Subscribe(b, func(LivingDied) { order = append(order, "died") })

	Emit(b, LivingDied{})
	Emit(b, HealthChanged{})
	Emit(b, LivingDied{})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"died", "died", "health"}, order)
}
