package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding_backend/internal/model"
)

func fourQuestionQuiz(passing int) model.QuizContent {
	q := func(correct int) model.Question {
		return model.Question{
			Question:      "q",
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: correct,
			Explanation:   "because",
		}
	}
	return model.QuizContent{
		PassingScore: passing,
		Questions:    []model.Question{q(0), q(1), q(2), q(0)},
	}
}

func TestGrade_Scoring(t *testing.T) {
	quiz := fourQuestionQuiz(70)

	grade, err := Grade(map[int]int{0: 0, 1: 1, 2: 2, 3: 1}, quiz)
	require.NoError(t, err)
	assert.Equal(t, 75.0, grade.ScorePct)
	assert.True(t, grade.Passed)
	assert.Equal(t, 3, grade.CorrectCount)
	assert.Equal(t, 4, grade.QuestionCount)

	grade, err = Grade(map[int]int{0: 0, 1: 1, 2: 0, 3: 1}, quiz)
	require.NoError(t, err)
	assert.Equal(t, 50.0, grade.ScorePct)
	assert.False(t, grade.Passed)
}

func TestGrade_PassingScoreIsInclusive(t *testing.T) {
	grade, err := Grade(map[int]int{0: 0, 1: 1, 2: 2, 3: 1}, fourQuestionQuiz(75))
	require.NoError(t, err)
	assert.True(t, grade.Passed)
}

func TestGrade_MissingAnswersAreWrong(t *testing.T) {
	grade, err := Grade(map[int]int{0: 0}, fourQuestionQuiz(70))
	require.NoError(t, err)
	assert.Equal(t, 25.0, grade.ScorePct)
	require.Len(t, grade.Results, 4)
	assert.True(t, grade.Results[0].Correct)
	assert.Nil(t, grade.Results[1].Selected)
	assert.False(t, grade.Results[1].Correct)
	assert.Equal(t, 1, grade.Results[1].CorrectAnswer)
	assert.Equal(t, "because", grade.Results[1].Explanation)
}

func TestGrade_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		answers map[int]int
		quiz    model.QuizContent
	}{
		{"no questions", map[int]int{}, model.QuizContent{PassingScore: 70}},
		{"question index out of range", map[int]int{4: 0}, fourQuestionQuiz(70)},
		{"negative question index", map[int]int{-1: 0}, fourQuestionQuiz(70)},
		{"option out of range", map[int]int{0: 3}, fourQuestionQuiz(70)},
		{"negative option", map[int]int{0: -1}, fourQuestionQuiz(70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Grade(tt.answers, tt.quiz)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
