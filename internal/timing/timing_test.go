package timing

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timsgardner/compliment/internal/logger"
)

func TestTimer_Marks(t *testing.T) {
	timer := NewTimer()
	time.Sleep(2 * time.Millisecond)
	first := timer.Mark("gather")
	second := timer.Mark("rank")

	assert.GreaterOrEqual(t, first, 2*time.Millisecond)
	assert.GreaterOrEqual(t, second, first)

	laps := timer.Laps()
	require.Len(t, laps, 2)
	assert.Equal(t, "gather", laps[0].Label)
	assert.Equal(t, "rank", laps[1].Label)
	assert.GreaterOrEqual(t, timer.Elapsed(), second)
}

func TestTimer_Annotate(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New("info", buf)

	timer := NewTimer()
	timer.Mark("gather")
	timer.Annotate(log.Info()).Msg("done")

	assert.Contains(t, buf.String(), "gather=")
	assert.Contains(t, buf.String(), "total=")
}
