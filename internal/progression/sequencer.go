package progression

import (
	"math"

	"onboarding_backend/internal/model"
)

type ModuleState string

const (
	StateLocked    ModuleState = "locked"
	StateUnlocked  ModuleState = "unlocked"
	StateCompleted ModuleState = "completed"
)

// ModuleStatus 模块在课程序列中的状态视图
type ModuleStatus struct {
	ModuleID string           `json:"moduleId"`
	Title    string           `json:"title"`
	Type     model.ModuleType `json:"type"`
	Position int              `json:"position"`
	State    ModuleState      `json:"state"`
}

// Sequence is the ordered unlock view of a course for one assignment.
type Sequence struct {
	Modules    []ModuleStatus `json:"modules"`
	Percentage int            `json:"percentage"`
}

func (s Sequence) State(moduleID string) (ModuleState, bool) {
	for _, m := range s.Modules {
		if m.ModuleID == moduleID {
			return m.State, true
		}
	}
	return "", false
}

// completedSet 只统计属于课程的模块记录
func completedSet(modules []model.Module, records []model.ModuleProgress) map[string]bool {
	inCourse := make(map[string]bool, len(modules))
	for _, m := range modules {
		inCourse[m.ID] = true
	}
	done := make(map[string]bool)
	for _, r := range records {
		if r.Completed && inCourse[r.ModuleID] {
			done[r.ModuleID] = true
		}
	}
	return done
}

// ComputeUnlockState returns the state of every module. The first module is
// always reachable; module i>0 unlocks once module i-1 is completed.
func ComputeUnlockState(modules []model.Module, records []model.ModuleProgress) map[string]ModuleState {
	states := make(map[string]ModuleState, len(modules))
	for _, st := range orderedStates(modules, completedSet(modules, records)) {
		states[st.ModuleID] = st.State
	}
	return states
}

func orderedStates(modules []model.Module, done map[string]bool) []ModuleStatus {
	out := make([]ModuleStatus, len(modules))
	for i, m := range modules {
		state := StateLocked
		switch {
		case done[m.ID]:
			state = StateCompleted
		case i == 0 || done[modules[i-1].ID]:
			state = StateUnlocked
		}
		out[i] = ModuleStatus{
			ModuleID: m.ID,
			Title:    m.Title,
			Type:     m.Type(),
			Position: i,
			State:    state,
		}
	}
	return out
}

// ComputeCoursePercentage rounds to the nearest integer; an empty course is 0.
func ComputeCoursePercentage(modules []model.Module, records []model.ModuleProgress) int {
	if len(modules) == 0 {
		return 0
	}
	done := completedSet(modules, records)
	return int(math.Round(100 * float64(len(done)) / float64(len(modules))))
}

func BuildSequence(modules []model.Module, records []model.ModuleProgress) Sequence {
	done := completedSet(modules, records)
	pct := 0
	if len(modules) > 0 {
		pct = int(math.Round(100 * float64(len(done)) / float64(len(modules))))
	}
	return Sequence{Modules: orderedStates(modules, done), Percentage: pct}
}

// NextModule returns the first unlocked module that is not yet completed, or
// "" when every module is completed.
func NextModule(seq Sequence) string {
	for _, m := range seq.Modules {
		if m.State == StateUnlocked {
			return m.ModuleID
		}
	}
	return ""
}

// CheckAccess 校验模块是否可进入；锁定时返回 LockedError 并附带跳转目标
func CheckAccess(seq Sequence, moduleID string) error {
	state, ok := seq.State(moduleID)
	if !ok {
		return NotFoundf("module %s not in course", moduleID)
	}
	if state == StateLocked {
		return &LockedError{ModuleID: moduleID, RedirectModuleID: NextModule(seq)}
	}
	return nil
}
