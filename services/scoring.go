package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/anjiri1684/skill_assessment/models"
)

// Selection is a submitted option reference. Clients send either the
// option id as a string or a numeric index; both are compared as text.
// A JSON null or a missing field leaves it unset.
type Selection struct {
	value *string
}

func Select(v string) Selection { return Selection{value: &v} }

func (s Selection) IsSet() bool { return s.value != nil }

func (s Selection) Ptr() *string {
	if s.value == nil {
		return nil
	}
	v := *s.value
	return &v
}

func (s *Selection) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		s.value = nil
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		s.value = &str
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		v := num.String()
		s.value = &v
		return nil
	}
	return fmt.Errorf("selected_option must be a string, number or null")
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*s.value)
}

type SubmittedAnswer struct {
	QuestionID     uint      `json:"question_id" validate:"required"`
	SelectedOption Selection `json:"selected_option"`
}

// GradedAnswer has the shape of a stored QuizAnswer row, minus its parent.
type GradedAnswer struct {
	QuestionID     uint    `json:"question_id"`
	SelectedOption *string `json:"selected_option"`
	IsCorrect      bool    `json:"is_correct"`
	PointsEarned   float64 `json:"points_earned"`
}

type GradingResult struct {
	Answers []GradedAnswer `json:"answers"`
	Score   float64        `json:"score"`
	Total   float64        `json:"total"`
}

// Grade scores submitted answers against the presented questions. Every
// question adds its weight to Total; only exact matches of CorrectOption add
// to Score. Answers for questions outside the set are ignored, and when a
// question is answered more than once the first answer counts.
func Grade(questions []models.Question, submitted []SubmittedAnswer) GradingResult {
	byQuestion := make(map[uint]Selection, len(submitted))
	for _, a := range submitted {
		if _, seen := byQuestion[a.QuestionID]; !seen {
			byQuestion[a.QuestionID] = a.SelectedOption
		}
	}

	result := GradingResult{Answers: make([]GradedAnswer, 0, len(questions))}
	for _, q := range questions {
		sel := byQuestion[q.ID]
		weight := q.Points()

		graded := GradedAnswer{QuestionID: q.ID, SelectedOption: sel.Ptr()}
		if sel.IsSet() && *sel.value == q.CorrectOption {
			graded.IsCorrect = true
			graded.PointsEarned = weight
		}

		result.Total += weight
		result.Score += graded.PointsEarned
		result.Answers = append(result.Answers, graded)
	}
	return result
}
