package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/anjiri1684/skill_assessment/models"
	"gorm.io/gorm"
)

// pctExpr is the per-attempt percentage; attempts with a zero total count as 0.
const pctExpr = "CASE WHEN total = 0 THEN 0 ELSE (score * 1.0 / total) * 100 END"

// SkillStat is the average percentage and attempt count for one skill.
type SkillStat struct {
	SkillID  uint
	Avg      float64
	Attempts int64
}

type SkillGap struct {
	SkillID        uint    `json:"skill_id"`
	SkillName      string  `json:"skill_name"`
	UserAvg        float64 `json:"user_avg"`
	UserAttempts   int64   `json:"user_attempts"`
	GlobalAvg      float64 `json:"global_avg"`
	GlobalAttempts int64   `json:"global_attempts"`
	Gap            float64 `json:"gap"`
	PctBelow       float64 `json:"pct_below"`
}

type UserScoreSummary struct {
	UserID   uint    `json:"user_id"`
	AvgScore float64 `json:"avg_score"`
	Attempts int64   `json:"attempts"`
}

// ReportService answers the read-only analytics queries over stored attempts.
type ReportService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db, Now: time.Now}
}

// SkillStats averages attempt percentages per skill. A zero userID means
// every user.
func (s *ReportService) SkillStats(ctx context.Context, userID uint) (map[uint]SkillStat, error) {
	var rows []SkillStat
	q := s.DB.WithContext(ctx).Model(&models.QuizAttempt{}).
		Select("skill_id, AVG(" + pctExpr + ") AS avg, COUNT(id) AS attempts").
		Group("skill_id")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate skill stats: %w", err)
	}

	stats := make(map[uint]SkillStat, len(rows))
	for _, r := range rows {
		stats[r.SkillID] = r
	}
	return stats, nil
}

// SkillGaps compares one user's per-skill average with everyone's. Every
// skill is reported, including ones nobody attempted.
func (s *ReportService) SkillGaps(ctx context.Context, userID uint, threshold float64) ([]SkillGap, error) {
	userStats, err := s.SkillStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	globalStats, err := s.SkillStats(ctx, 0)
	if err != nil {
		return nil, err
	}

	var skills []models.Skill
	if err := s.DB.WithContext(ctx).Select("id", "name").Order("id ASC").Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	return ComputeGaps(skills, userStats, globalStats, threshold), nil
}

// ComputeGaps joins user and global stats on skill, keeps skills whose user
// average is below threshold (all skills when threshold is zero) and orders
// the result by gap, largest first. Ties keep skill order.
func ComputeGaps(skills []models.Skill, userStats, globalStats map[uint]SkillStat, threshold float64) []SkillGap {
	gaps := make([]SkillGap, 0, len(skills))
	for _, sk := range skills {
		u := userStats[sk.ID]
		g := globalStats[sk.ID]

		item := SkillGap{
			SkillID:        sk.ID,
			SkillName:      sk.Name,
			UserAvg:        u.Avg,
			UserAttempts:   u.Attempts,
			GlobalAvg:      g.Avg,
			GlobalAttempts: g.Attempts,
			Gap:            roundTo(g.Avg-u.Avg, 2),
		}
		if g.Avg != 0 {
			item.PctBelow = roundTo((g.Avg-u.Avg)/g.Avg*100, 0)
		}

		if threshold == 0 || item.UserAvg < threshold {
			gaps = append(gaps, item)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Gap > gaps[j].Gap })
	return gaps
}

// roundTo rounds half up at the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Floor(v*p+0.5) / p
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}

// UserHistory lists a user's attempts newest first with the skill's id and
// name attached. Attempts whose skill was deleted keep a nil Skill.
func (s *ReportService) UserHistory(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.DB.WithContext(ctx).
		Preload("Skill", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("list attempts for user %d: %w", userID, err)
	}
	return attempts, nil
}

// ScoresByUser summarizes raw scores per user over attempts created in the
// last days days.
func (s *ReportService) ScoresByUser(ctx context.Context, days int) ([]UserScoreSummary, error) {
	if days <= 0 {
		days = 30
	}
	since := s.Now().Add(-time.Duration(days) * 24 * time.Hour)

	var rows []UserScoreSummary
	err := s.DB.WithContext(ctx).Model(&models.QuizAttempt{}).
		Select("user_id, AVG(score) AS avg_score, COUNT(id) AS attempts").
		Where("created_at >= ?", since).
		Group("user_id").
		Order("user_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate scores by user: %w", err)
	}
	return rows, nil
}
