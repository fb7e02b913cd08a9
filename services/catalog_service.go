package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/skill_assessment/models"
	"gorm.io/gorm"
)

var (
	ErrSkillExists          = errors.New("skill name already exists")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrTooFewOptions        = errors.New("a question needs at least 2 options")
	ErrInvalidCorrectOption = errors.New("correct_option does not match any option id")
)

// QuestionInput is an admin write. Options may be in any layout
// NormalizeOptions accepts.
type QuestionInput struct {
	SkillID       uint
	Text          string
	Options       any
	CorrectOption string
	Weight        int
}

// CatalogService manages skills and their questions.
type CatalogService struct {
	DB *gorm.DB

	// StrictCorrectOption rejects questions whose correct option names no
	// option id. Rows already stored are never re-checked.
	StrictCorrectOption bool
}

func NewCatalogService(db *gorm.DB, strict bool) *CatalogService {
	return &CatalogService{DB: db, StrictCorrectOption: strict}
}

func (s *CatalogService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

func (s *CatalogService) GetSkill(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	err := s.DB.WithContext(ctx).First(&skill, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSkillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get skill %d: %w", id, err)
	}
	return &skill, nil
}

func (s *CatalogService) nameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Skill{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (s *CatalogService) CreateSkill(ctx context.Context, name, description string) (*models.Skill, error) {
	taken, err := s.nameTaken(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check skill name: %w", err)
	}
	if taken {
		return nil, ErrSkillExists
	}

	skill := models.Skill{Name: name, Description: description}
	if err := s.DB.WithContext(ctx).Create(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSkillExists
		}
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &skill, nil
}

func (s *CatalogService) UpdateSkill(ctx context.Context, id uint, name, description string) (*models.Skill, error) {
	skill, err := s.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("check skill name: %w", err)
	}
	if taken {
		return nil, ErrSkillExists
	}

	skill.Name = name
	skill.Description = description
	if err := s.DB.WithContext(ctx).Save(skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSkillExists
		}
		return nil, fmt.Errorf("update skill %d: %w", id, err)
	}
	return skill, nil
}

// DeleteSkill removes only the skill row. Its questions and attempts are
// left in place.
func (s *CatalogService) DeleteSkill(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.Skill{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete skill %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

// prepareQuestion validates an admin write and builds the row to store.
func (s *CatalogService) prepareQuestion(ctx context.Context, in QuestionInput) (models.Question, error) {
	if _, err := s.GetSkill(ctx, in.SkillID); err != nil {
		return models.Question{}, err
	}

	options := NormalizeOptions(in.Options)
	if len(options) < 2 {
		return models.Question{}, ErrTooFewOptions
	}
	if s.StrictCorrectOption && !HasOption(options, in.CorrectOption) {
		return models.Question{}, ErrInvalidCorrectOption
	}

	weight := in.Weight
	if weight < 1 {
		weight = 1
	}

	return models.Question{
		SkillID:       in.SkillID,
		Text:          in.Text,
		Options:       EncodeOptions(options),
		CorrectOption: in.CorrectOption,
		Weight:        weight,
	}, nil
}

func (s *CatalogService) CreateQuestion(ctx context.Context, in QuestionInput) (*models.Question, error) {
	q, err := s.prepareQuestion(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return &q, nil
}

func (s *CatalogService) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := s.DB.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	return &q, nil
}

// ListQuestions returns questions ordered by id, optionally for one skill.
func (s *CatalogService) ListQuestions(ctx context.Context, skillID uint) ([]models.Question, error) {
	var questions []models.Question
	q := s.DB.WithContext(ctx).Order("id ASC")
	if skillID != 0 {
		q = q.Where("skill_id = ?", skillID)
	}
	if err := q.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, id uint, in QuestionInput) (*models.Question, error) {
	existing, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	q, err := s.prepareQuestion(ctx, in)
	if err != nil {
		return nil, err
	}

	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	if err := s.DB.WithContext(ctx).Save(&q).Error; err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	return &q, nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete question %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
