package progression

import "math"

type ReadingState struct {
	ProgressPct    float64 `json:"progressPct"`
	MaxProgressPct float64 `json:"maxProgressPct"`
}

type ReadingReport struct {
	ProgressPct float64 `json:"progressPct"`
	Completed   bool    `json:"completed"`
}

// ReadingGate 按滚动比例判定阅读完成，不做回退校验
type ReadingGate struct {
	rules Rules
	state ReadingState
}

func NewReadingGate(rules Rules) *ReadingGate {
	return &ReadingGate{rules: rules}
}

func RestoreReadingGate(rules Rules, state ReadingState) *ReadingGate {
	return &ReadingGate{rules: rules, state: state}
}

func (g *ReadingGate) State() ReadingState {
	return g.state
}

func (g *ReadingGate) ReportScroll(scrollTop, scrollHeight, clientHeight float64) (ReadingReport, error) {
	for name, v := range map[string]float64{
		"scroll_top":    scrollTop,
		"scroll_height": scrollHeight,
		"client_height": clientHeight,
	} {
		if !finite(v) || v < 0 {
			return ReadingReport{}, Invalidf("%s must be a non-negative number, got %v", name, v)
		}
	}

	pct := 100.0
	if scrollable := scrollHeight - clientHeight; scrollable > 0 {
		pct = math.Max(0, math.Min(100, 100*scrollTop/scrollable))
	}

	g.state.ProgressPct = pct
	if pct > g.state.MaxProgressPct {
		g.state.MaxProgressPct = pct
	}

	return ReadingReport{
		ProgressPct: pct,
		Completed:   pct > g.rules.ReadingCompletionPct,
	}, nil
}
