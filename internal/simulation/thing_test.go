package simulation

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"kinematics-sim/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCountingThing(t *testing.T, interval time.Duration, policy CatchUpPolicy) (*Thing, *[]float64) {
	t.Helper()
	thing, err := NewThing(common.NewVec2(0, 0), interval)
	require.NoError(t, err)
	logger, _ := newBufferLogger()
	thing.Bind(Environment{Policy: policy, Logger: logger})

	var calls []float64
	thing.SetUpdateFunc(func(dt float64) error {
		calls = append(calls, dt)
		return nil
	})
	return thing, &calls
}

func TestNewThingRejectsNegativeInterval(t *testing.T) {
	_, err := NewThing(common.NewVec2(0, 0), -time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidInterval)
}

func TestNewThingID(t *testing.T) {
	thing, err := NewThing(common.NewVec2(1, 2), time.Second)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(thing.GetID(), "thing-"))
	assert.Equal(t, common.NewVec2(1, 2), thing.GetPosition())
	assert.Equal(t, time.Second, thing.Interval())
}

func TestFixedStepCatchUp(t *testing.T) {
	thing, calls := newCountingThing(t, 10*time.Millisecond, FixedStep)

	for i := 0; i < 3; i++ {
		thing.ComputeIfReady(25 * time.Millisecond)
	}

	require.Len(t, *calls, 7)
	for _, dt := range *calls {
		assert.InDelta(t, 0.010, dt, 1e-12)
	}
	assert.Equal(t, 5*time.Millisecond, thing.Accumulated())
}

func TestSingleCatchUp(t *testing.T) {
	thing, calls := newCountingThing(t, 10*time.Millisecond, SingleCatchUp)

	for i := 0; i < 3; i++ {
		thing.ComputeIfReady(25 * time.Millisecond)
		assert.Equal(t, time.Duration(0), thing.Accumulated())
	}

	require.Len(t, *calls, 3)
	for _, dt := range *calls {
		assert.InDelta(t, 0.025, dt, 1e-12)
	}
}

func TestNoUpdateUntilIntervalExceeded(t *testing.T) {
	thing, calls := newCountingThing(t, 10*time.Millisecond, FixedStep)

	thing.ComputeIfReady(5 * time.Millisecond)
	thing.ComputeIfReady(5 * time.Millisecond)
	assert.Empty(t, *calls)
	assert.Equal(t, 10*time.Millisecond, thing.Accumulated())

	thing.ComputeIfReady(time.Millisecond)
	assert.Len(t, *calls, 1)
	assert.Equal(t, time.Millisecond, thing.Accumulated())
}

func TestZeroIntervalFiresEveryTick(t *testing.T) {
	for _, policy := range []CatchUpPolicy{FixedStep, SingleCatchUp} {
		t.Run(policy.String(), func(t *testing.T) {
			thing, calls := newCountingThing(t, 0, policy)

			for i := 0; i < 4; i++ {
				thing.ComputeIfReady(3 * time.Millisecond)
			}

			require.Len(t, *calls, 4)
			for _, dt := range *calls {
				assert.InDelta(t, 0.003, dt, 1e-12)
			}
			assert.Equal(t, time.Duration(0), thing.Accumulated())
		})
	}
}

func TestAccumulatorStaysWithinInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	interval := 7 * time.Millisecond
	thing, calls := newCountingThing(t, interval, FixedStep)

	var total time.Duration
	for i := 0; i < 500; i++ {
		tick := time.Duration(rng.Intn(40)) * time.Millisecond
		total += tick
		thing.ComputeIfReady(tick)

		acc := thing.Accumulated()
		assert.GreaterOrEqual(t, acc, time.Duration(0))
		assert.LessOrEqual(t, acc, interval)
	}

	consumed := time.Duration(len(*calls)) * interval
	assert.Equal(t, total, consumed+thing.Accumulated())
}

func TestFailedUpdateDropsAccumulatedTime(t *testing.T) {
	thing, err := NewThing(common.NewVec2(0, 0), 10*time.Millisecond)
	require.NoError(t, err)
	logger, buf := newBufferLogger()
	thing.Bind(Environment{Policy: FixedStep, Logger: logger})

	calls := 0
	thing.SetUpdateFunc(func(dt float64) error {
		calls++
		return errors.New("boom")
	})

	thing.ComputeIfReady(45 * time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.Equal(t, time.Duration(0), thing.Accumulated())
	assert.Contains(t, buf.String(), "update failed: boom")
}

func TestPanickingUpdateIsContained(t *testing.T) {
	thing, err := NewThing(common.NewVec2(0, 0), 0)
	require.NoError(t, err)
	logger, buf := newBufferLogger()
	thing.Bind(Environment{Logger: logger})
	thing.SetUpdateFunc(func(dt float64) error {
		panic("bad physics")
	})

	assert.NotPanics(t, func() { thing.ComputeIfReady(time.Millisecond) })
	assert.Contains(t, buf.String(), "update panicked: bad physics")
	assert.Equal(t, time.Duration(0), thing.Accumulated())
}

func TestMissingUpdateWarnsOnce(t *testing.T) {
	thing, err := NewThing(common.NewVec2(0, 0), 0)
	require.NoError(t, err)
	logger, buf := newBufferLogger()
	thing.Bind(Environment{Logger: logger})

	for i := 0; i < 5; i++ {
		thing.ComputeIfReady(time.Millisecond)
	}
	thing.Step(0)

	assert.Equal(t, 1, strings.Count(buf.String(), "has no update function"))
}

func TestPositionHooksRunAroundMutation(t *testing.T) {
	thing, err := NewThing(common.NewVec2(1, 1), 0)
	require.NoError(t, err)

	var events []string
	thing.SetHooks(
		func() { events = append(events, "before "+thing.GetPosition().String()) },
		func() { events = append(events, "after "+thing.GetPosition().String()) },
	)

	thing.SetX(2)
	thing.SetY(3)
	thing.SetPosition(common.NewVec2(4, 5))

	assert.Equal(t, []string{
		"before [1.000, 1.000]", "after [2.000, 1.000]",
		"before [2.000, 1.000]", "after [2.000, 3.000]",
		"before [2.000, 3.000]", "after [4.000, 5.000]",
	}, events)
}

func TestPositionMutationWithoutHooks(t *testing.T) {
	thing, err := NewThing(common.NewVec2(0, 0), 0)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		thing.SetPosition(common.NewVec2(3, 4))
		thing.SetX(5)
	})
	assert.Equal(t, common.NewVec2(5, 4), thing.GetPosition())
}
