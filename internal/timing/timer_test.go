package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := StartTimer("test_timer")
	assert.Equal(t, "test_timer", timer.Name())

	// Sleep for a short duration
	time.Sleep(10 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	assert.InDelta(t, duration.Seconds(), timer.Seconds(), 1e-9)

	str := timer.String()
	assert.Contains(t, str, "[test_timer] took ")
	assert.True(t, len(str) > 0 && str[len(str)-1] == 's')
}

func TestTimerStopIsIdempotent(t *testing.T) {
	timer := StartTimer("once")
	first := timer.Stop()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, first, timer.Stop())
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"build", 1.5, "[build] took 1.5s"},
		{"zero", 0, "[zero] took 0s"},
		{"precise", 0.123456789, "[precise] took 0.123456789s"},
		{"tiny", 1e-05, "[tiny] took 1e-05s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLine(tt.name, tt.seconds))
		})
	}
}
