package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anjiri1684/skill_assessment/models"
	"gorm.io/gorm"
)

var (
	ErrSkillNotFound   = errors.New("skill not found")
	ErrNoAnswers       = errors.New("answers must be a non-empty list")
	ErrAttemptNotFound = errors.New("attempt not found")
)

// PublicQuestion is the learner-facing view of a question. It never carries
// the correct option or the weight.
type PublicQuestion struct {
	ID      uint     `json:"id"`
	SkillID uint     `json:"skill_id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

type Submission struct {
	SkillID     uint
	Answers     []SubmittedAnswer
	QuestionIDs []uint
	StartedAt   *time.Time
}

type QuizService struct {
	DB       *gorm.DB
	Recorder *AttemptRecorder

	DefaultLimit int
	MaxLimit     int
}

func NewQuizService(db *gorm.DB, defaultLimit, maxLimit int) *QuizService {
	return &QuizService{
		DB:           db,
		Recorder:     NewAttemptRecorder(db),
		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
	}
}

// EffectiveLimit maps a requested limit to the one actually applied.
func (s *QuizService) EffectiveLimit(limit int) int {
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	return limit
}

func (s *QuizService) loadQuestions(ctx context.Context, skillID uint, limit int) ([]models.Question, error) {
	var questions []models.Question
	err := s.DB.WithContext(ctx).
		Where("skill_id = ?", skillID).
		Order("id ASC").
		Limit(s.EffectiveLimit(limit)).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load questions for skill %d: %w", skillID, err)
	}
	return questions, nil
}

// QuestionsForSkill returns the questions a learner sees for a skill, with
// options normalized.
func (s *QuizService) QuestionsForSkill(ctx context.Context, skillID uint, limit int) ([]PublicQuestion, error) {
	questions, err := s.loadQuestions(ctx, skillID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		out[i] = PublicQuestion{
			ID:      q.ID,
			SkillID: q.SkillID,
			Text:    q.Text,
			Options: NormalizeOptions(q.Options),
		}
	}
	return out, nil
}

// presentedQuestions resolves the question set an attempt is graded
// against: the listed ids restricted to the skill. Without ids it is the
// skill's default quiz plus any answered question of the skill outside it,
// since the learner may have fetched with a larger limit.
func (s *QuizService) presentedQuestions(ctx context.Context, skillID uint, ids []uint, answers []SubmittedAnswer) ([]models.Question, error) {
	if len(ids) > 0 {
		return s.questionsByID(ctx, skillID, ids)
	}

	questions, err := s.loadQuestions(ctx, skillID, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(questions))
	for _, q := range questions {
		seen[q.ID] = true
	}
	var extra []uint
	for _, a := range answers {
		if !seen[a.QuestionID] {
			seen[a.QuestionID] = true
			extra = append(extra, a.QuestionID)
		}
	}
	if len(extra) == 0 {
		return questions, nil
	}

	answered, err := s.questionsByID(ctx, skillID, extra)
	if err != nil {
		return nil, err
	}
	questions = append(questions, answered...)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (s *QuizService) questionsByID(ctx context.Context, skillID uint, ids []uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.DB.WithContext(ctx).
		Where("skill_id = ? AND id IN ?", skillID, ids).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load presented questions for skill %d: %w", skillID, err)
	}
	return questions, nil
}

// Submit grades a submission and records it. Nothing is written when
// validation fails.
func (s *QuizService) Submit(ctx context.Context, userID uint, sub Submission) (*models.QuizAttempt, GradingResult, error) {
	if len(sub.Answers) == 0 {
		return nil, GradingResult{}, ErrNoAnswers
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Skill{}).Where("id = ?", sub.SkillID).Count(&count).Error; err != nil {
		return nil, GradingResult{}, fmt.Errorf("look up skill %d: %w", sub.SkillID, err)
	}
	if count == 0 {
		return nil, GradingResult{}, ErrSkillNotFound
	}

	questions, err := s.presentedQuestions(ctx, sub.SkillID, sub.QuestionIDs, sub.Answers)
	if err != nil {
		return nil, GradingResult{}, err
	}

	result := Grade(questions, sub.Answers)
	attempt, err := s.Recorder.Record(ctx, userID, sub.SkillID, result, sub.StartedAt)
	if err != nil {
		return nil, GradingResult{}, err
	}
	return attempt, result, nil
}

// Attempt loads one attempt with its answers.
func (s *QuizService) Attempt(ctx context.Context, attemptID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.DB.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Skill", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		First(&attempt, attemptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load attempt %d: %w", attemptID, err)
	}
	return &attempt, nil
}
