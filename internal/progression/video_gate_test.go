package progression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoGate_RejectsForwardSeek(t *testing.T) {
	g := NewVideoGate(DefaultRules(), 0)

	_, err := g.ReportProgress(10, 100)
	require.NoError(t, err)

	rep, err := g.ReportProgress(50, 100)
	require.NoError(t, err)
	require.NotNil(t, rep.SeekTo)
	assert.Equal(t, 10.0, *rep.SeekTo)
	assert.False(t, rep.Completed)
	assert.Equal(t, 10.0, g.State().MaxWatchedSeconds, "rejected sample must not move max")

	rep, err = g.ReportProgress(11.5, 100)
	require.NoError(t, err)
	assert.Nil(t, rep.SeekTo)
	assert.Equal(t, 11.5, g.State().MaxWatchedSeconds)
}

func TestVideoGate_FirstSampleAccepted(t *testing.T) {
	g := NewVideoGate(DefaultRules(), 0)

	rep, err := g.ReportProgress(40, 100)
	require.NoError(t, err)
	assert.Nil(t, rep.SeekTo)
	assert.Equal(t, 40.0, g.State().MaxWatchedSeconds)
}

func TestVideoGate_BackwardSeekKeepsMax(t *testing.T) {
	g := RestoreVideoGate(DefaultRules(), VideoState{PlayedSeconds: 30, MaxWatchedSeconds: 30}, 0)

	rep, err := g.ReportProgress(5, 100)
	require.NoError(t, err)
	assert.Nil(t, rep.SeekTo)
	assert.Equal(t, 30.0, g.State().MaxWatchedSeconds)
	assert.Equal(t, 5.0, g.State().PlayedSeconds)
}

func TestVideoGate_CompletionThreshold(t *testing.T) {
	tests := []struct {
		name   string
		played float64
		want   bool
	}{
		{"just below", 94.9, false},
		{"exactly at", 95.0, true},
		{"end", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := RestoreVideoGate(DefaultRules(), VideoState{MaxWatchedSeconds: tt.played}, 0)
			rep, err := g.ReportProgress(tt.played, 100)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rep.Completed)
		})
	}
}

func TestVideoGate_ZeroDurationNeverCompletes(t *testing.T) {
	g := NewVideoGate(DefaultRules(), 0)
	rep, err := g.ReportProgress(0, 0)
	require.NoError(t, err)
	assert.False(t, rep.Completed)
	assert.Equal(t, 0.0, rep.WatchedPct)
}

func TestVideoGate_KnownDurationOverridesClient(t *testing.T) {
	g := RestoreVideoGate(DefaultRules(), VideoState{MaxWatchedSeconds: 20}, 200)

	// client claims the video is 20s long
	rep, err := g.ReportProgress(20, 20)
	require.NoError(t, err)
	assert.False(t, rep.Completed)
	assert.Equal(t, 10.0, rep.WatchedPct)
	assert.Equal(t, 200.0, g.State().DurationSeconds)
}

func TestVideoGate_InvalidInput(t *testing.T) {
	inputs := [][2]float64{
		{-1, 100},
		{math.NaN(), 100},
		{math.Inf(1), 100},
		{10, -5},
		{10, math.Inf(1)},
	}
	for _, in := range inputs {
		g := NewVideoGate(DefaultRules(), 0)
		_, err := g.ReportProgress(in[0], in[1])
		assert.ErrorIs(t, err, ErrInvalidInput, "input %v", in)
		assert.Equal(t, VideoState{}, g.State())
	}
}

func TestVideoGate_CustomTolerance(t *testing.T) {
	rules := DefaultRules()
	rules.SeekToleranceSeconds = 5
	g := RestoreVideoGate(rules, VideoState{MaxWatchedSeconds: 10}, 100)

	rep, err := g.ReportProgress(14.9, 100)
	require.NoError(t, err)
	assert.Nil(t, rep.SeekTo)

	rep, err = g.ReportProgress(20.1, 100)
	require.NoError(t, err)
	require.NotNil(t, rep.SeekTo)
	assert.Equal(t, 14.9, *rep.SeekTo)
}
