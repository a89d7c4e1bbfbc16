package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/stretchr/testify/assert"
)

func TestProfilerSamplesOncePerInterval(t *testing.T) {
	var out bytes.Buffer
	p := NewProfiler(logger.NewLogger("profiler", &out, &bytes.Buffer{}, false), time.Second)

	start := time.Unix(1000, 0)
	clock := start
	p.now = func() time.Time { return clock }
	p.lastTime = start

	for i := 0; i < 29; i++ {
		clock = clock.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	assert.Empty(t, out.String())

	clock = start.Add(time.Second)
	assert.True(t, p.Tick())
	assert.InDelta(t, 30, p.Last().FPS, 1e-9)
	assert.Contains(t, out.String(), `level=INFO msg="FPS: 30.00`)
	assert.Contains(t, out.String(), "logger=profiler")

	clock = clock.Add(time.Second / 2)
	assert.False(t, p.Tick())
}

func TestProfilerDefaults(t *testing.T) {
	p := NewProfiler(nil, 0)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.log)
}
