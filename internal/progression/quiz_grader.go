package progression

import "onboarding_backend/internal/model"

type QuestionResult struct {
	Index         int    `json:"index"`
	Selected      *int   `json:"selected,omitempty"`
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

type QuizGrade struct {
	ScorePct      float64          `json:"scorePct"`
	Passed        bool             `json:"passed"`
	CorrectCount  int              `json:"correctCount"`
	QuestionCount int              `json:"questionCount"`
	Results       []QuestionResult `json:"results"`
}

// Grade scores answers (question index -> selected option index) against the
// quiz key. Unanswered questions count as wrong.
func Grade(answers map[int]int, quiz model.QuizContent) (*QuizGrade, error) {
	n := len(quiz.Questions)
	if n == 0 {
		return nil, Invalidf("quiz has no questions")
	}
	if quiz.PassingScore < 0 || quiz.PassingScore > 100 {
		return nil, Invalidf("passing score %d out of range", quiz.PassingScore)
	}
	for idx, selected := range answers {
		if idx < 0 || idx >= n {
			return nil, Invalidf("answer for question %d but quiz has %d questions", idx, n)
		}
		if selected < 0 || selected >= len(quiz.Questions[idx].Options) {
			return nil, Invalidf("question %d has no option %d", idx, selected)
		}
	}

	grade := &QuizGrade{QuestionCount: n, Results: make([]QuestionResult, n)}
	for i, q := range quiz.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, Invalidf("question %d has correct answer %d outside its options", i, q.CorrectAnswer)
		}
		res := QuestionResult{Index: i, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation}
		if selected, ok := answers[i]; ok {
			s := selected
			res.Selected = &s
			res.Correct = selected == q.CorrectAnswer
		}
		if res.Correct {
			grade.CorrectCount++
		}
		grade.Results[i] = res
	}

	grade.ScorePct = 100 * float64(grade.CorrectCount) / float64(n)
	grade.Passed = grade.ScorePct >= float64(quiz.PassingScore)
	return grade, nil
}
