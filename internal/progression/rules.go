package progression

// Rules 进度判定阈值，百分比均为 0-100
type Rules struct {
	SeekToleranceSeconds float64 `json:"seekToleranceSeconds"`
	VideoCompletionPct   float64 `json:"videoCompletionPct"`
	ReadingCompletionPct float64 `json:"readingCompletionPct"`
}

func DefaultRules() Rules {
	return Rules{
		SeekToleranceSeconds: 2.0,
		VideoCompletionPct:   95,
		ReadingCompletionPct: 90,
	}
}
