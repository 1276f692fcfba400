package progression

import "math"

// VideoState 一次观看会话内的播放状态，随会话保存，不逐帧持久化
type VideoState struct {
	PlayedSeconds     float64 `json:"playedSeconds"`
	MaxWatchedSeconds float64 `json:"maxWatchedSeconds"`
	DurationSeconds   float64 `json:"durationSeconds"`
}

// VideoReport is the outcome of one playback sample. When SeekTo is set the
// player must be moved back to that position.
type VideoReport struct {
	SeekTo     *float64 `json:"seekTo,omitempty"`
	Completed  bool     `json:"completed"`
	WatchedPct float64  `json:"watchedPct"`
}

// VideoGate rejects forward seeks past the furthest watched point and
// declares completion once enough of the video has been played.
type VideoGate struct {
	rules         Rules
	state         VideoState
	knownDuration float64
}

// NewVideoGate starts a fresh session. knownDuration is the server-side
// duration of the video, 0 if unknown.
func NewVideoGate(rules Rules, knownDuration float64) *VideoGate {
	return RestoreVideoGate(rules, VideoState{}, knownDuration)
}

func RestoreVideoGate(rules Rules, state VideoState, knownDuration float64) *VideoGate {
	if knownDuration > 0 {
		state.DurationSeconds = knownDuration
	}
	return &VideoGate{rules: rules, state: state, knownDuration: knownDuration}
}

func (g *VideoGate) State() VideoState {
	return g.state
}

func (g *VideoGate) ReportProgress(playedSeconds, durationSeconds float64) (VideoReport, error) {
	if !finite(playedSeconds) || playedSeconds < 0 {
		return VideoReport{}, Invalidf("played_seconds must be a non-negative number, got %v", playedSeconds)
	}
	if !finite(durationSeconds) || durationSeconds < 0 {
		return VideoReport{}, Invalidf("duration_seconds must be a non-negative number, got %v", durationSeconds)
	}

	if g.knownDuration <= 0 && durationSeconds > 0 {
		g.state.DurationSeconds = durationSeconds
	}
	duration := g.state.DurationSeconds

	maxWatched := g.state.MaxWatchedSeconds
	if playedSeconds > maxWatched+g.rules.SeekToleranceSeconds && maxWatched > 0 {
		seekTo := maxWatched
		return VideoReport{
			SeekTo:     &seekTo,
			WatchedPct: watchedPct(maxWatched, duration),
		}, nil
	}

	g.state.PlayedSeconds = playedSeconds
	if playedSeconds > maxWatched {
		g.state.MaxWatchedSeconds = playedSeconds
	}

	report := VideoReport{WatchedPct: watchedPct(playedSeconds, duration)}
	if duration > 0 && 100*playedSeconds/duration >= g.rules.VideoCompletionPct {
		report.Completed = true
	}
	return report, nil
}

func watchedPct(seconds, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Min(100, 100*seconds/duration)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
