package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	config "github.com/anjiri1684/skill_assessment/configs"
	"github.com/anjiri1684/skill_assessment/database"
	"github.com/anjiri1684/skill_assessment/handlers"
	"github.com/anjiri1684/skill_assessment/models"
	"github.com/anjiri1684/skill_assessment/routes"
	"github.com/anjiri1684/skill_assessment/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	adminToken string
	userToken  string
	otherToken string
	user       models.User
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	settings := config.Settings{
		JWTSecret:           testSecret,
		TokenTTL:            time.Hour,
		StrictCorrectOption: true,
		QuizDefaultLimit:    10,
		QuizMaxLimit:        200,
	}

	env := &testEnv{app: routes.NewApp(handlers.New(db, settings)), db: db}
	admin := createUser(t, db, "admin@example.com", models.RoleAdmin)
	env.user = createUser(t, db, "learner@example.com", models.RoleUser)
	other := createUser(t, db, "other@example.com", models.RoleUser)

	env.adminToken = token(t, admin)
	env.userToken = token(t, env.user)
	env.otherToken = token(t, other)
	return env
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{Name: email, Email: email, Password: string(hash), Role: role, Active: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func token(t *testing.T, u models.User) string {
	t.Helper()
	s, err := utils.GenerateToken(testSecret, time.Hour, u)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return s
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func (e *testEnv) createSkill(t *testing.T, name string) uint {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/v1/skills", e.adminToken, map[string]any{"name": name})
	if code != http.StatusCreated {
		t.Fatalf("create skill: %d %s", code, body)
	}
	return decode[models.Skill](t, body).ID
}

func (e *testEnv) createQuestion(t *testing.T, skillID uint, options any, correct string, weight int) uint {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/v1/admin/questions", e.adminToken, map[string]any{
		"skill_id":       skillID,
		"text":           "Which one?",
		"options":        options,
		"correct_option": correct,
		"weight":         weight,
	})
	if code != http.StatusCreated {
		t.Fatalf("create question: %d %s", code, body)
	}
	return decode[handlers.AdminQuestion](t, body).ID
}

func TestHealth(t *testing.T) {
	env := newEnv(t)
	code, body := env.do(t, http.MethodGet, "/health", "", nil)
	if code != http.StatusOK || !bytes.Contains(body, []byte(`"ok"`)) {
		t.Fatalf("health = %d %s", code, body)
	}
}

func TestQuizFlow(t *testing.T) {
	env := newEnv(t)
	skillID := env.createSkill(t, "Go")
	q1 := env.createQuestion(t, skillID, []map[string]string{{"id": "A", "text": "a"}, {"id": "B", "text": "b"}}, "A", 1)
	q2 := env.createQuestion(t, skillID, []map[string]string{{"id": "B", "text": "b"}, {"id": "C", "text": "c"}}, "B", 1)

	code, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/quiz/skill/%d", skillID), "", nil)
	if code != http.StatusOK {
		t.Fatalf("fetch questions: %d %s", code, body)
	}
	questions := decode[[]map[string]any](t, body)
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	for _, q := range questions {
		if _, ok := q["correct_option"]; ok {
			t.Error("correct_option leaked to the quiz read path")
		}
		if _, ok := q["weight"]; ok {
			t.Error("weight leaked to the quiz read path")
		}
		if opts, ok := q["options"].([]any); !ok || len(opts) != 2 {
			t.Errorf("options = %v, want a 2-element list", q["options"])
		}
	}

	code, body = env.do(t, http.MethodPost, "/api/v1/quiz/attempt", env.userToken, map[string]any{
		"skill_id": skillID,
		"answers": []map[string]any{
			{"question_id": q1, "selected_option": "A"},
			{"question_id": q2, "selected_option": "C"},
		},
	})
	if code != http.StatusOK {
		t.Fatalf("submit: %d %s", code, body)
	}
	submitted := decode[struct {
		AttemptID uint    `json:"attempt_id"`
		Score     float64 `json:"score"`
		Total     float64 `json:"total"`
	}](t, body)
	if submitted.Score != 1 || submitted.Total != 2 || submitted.AttemptID == 0 {
		t.Fatalf("submit result = %+v, want 1/2", submitted)
	}

	attemptPath := fmt.Sprintf("/api/v1/quiz/attempts/%d", submitted.AttemptID)
	code, body = env.do(t, http.MethodGet, attemptPath, env.userToken, nil)
	if code != http.StatusOK {
		t.Fatalf("attempt detail: %d %s", code, body)
	}
	detail := decode[models.QuizAttempt](t, body)
	if len(detail.Answers) != 2 {
		t.Errorf("attempt detail has %d answers, want 2", len(detail.Answers))
	}
	if code, _ := env.do(t, http.MethodGet, attemptPath, env.otherToken, nil); code != http.StatusForbidden {
		t.Errorf("other user reading attempt: %d, want 403", code)
	}
	if code, _ := env.do(t, http.MethodGet, attemptPath, env.adminToken, nil); code != http.StatusOK {
		t.Errorf("admin reading attempt: %d, want 200", code)
	}

	historyPath := fmt.Sprintf("/api/v1/reports/user/%d", env.user.ID)
	code, body = env.do(t, http.MethodGet, historyPath, env.userToken, nil)
	if code != http.StatusOK {
		t.Fatalf("history: %d %s", code, body)
	}
	history := decode[struct {
		Attempts []models.QuizAttempt `json:"attempts"`
	}](t, body)
	if len(history.Attempts) != 1 || history.Attempts[0].Skill == nil || history.Attempts[0].Skill.Name != "Go" {
		t.Errorf("history = %s", body)
	}
	if code, _ := env.do(t, http.MethodGet, historyPath, env.otherToken, nil); code != http.StatusForbidden {
		t.Errorf("other user reading history: %d, want 403", code)
	}

	gapsPath := fmt.Sprintf("/api/v1/reports/skill-gaps?user_id=%d&threshold=60", env.user.ID)
	code, body = env.do(t, http.MethodGet, gapsPath, env.adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("skill gaps: %d %s", code, body)
	}
	gaps := decode[[]map[string]any](t, body)
	if len(gaps) != 1 || gaps[0]["user_avg"].(float64) != 50 || gaps[0]["skill_name"] != "Go" {
		t.Errorf("gaps = %s", body)
	}
	if code, _ := env.do(t, http.MethodGet, gapsPath, env.userToken, nil); code != http.StatusForbidden {
		t.Errorf("non-admin skill gaps: %d, want 403", code)
	}

	code, body = env.do(t, http.MethodGet, "/api/v1/reports/time?days=7", env.adminToken, nil)
	if code != http.StatusOK || !bytes.Contains(body, []byte(`"by_user"`)) {
		t.Errorf("time report = %d %s", code, body)
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newEnv(t)
	skillID := env.createSkill(t, "Go")

	tests := []struct {
		name string
		tok  string
		body any
		want int
	}{
		{"no token", "", map[string]any{"skill_id": skillID, "answers": []any{map[string]any{"question_id": 1}}}, http.StatusBadRequest},
		{"bad token", "not-a-jwt", map[string]any{"skill_id": skillID}, http.StatusUnauthorized},
		{"empty answers", env.userToken, map[string]any{"skill_id": skillID, "answers": []any{}}, http.StatusBadRequest},
		{"missing skill", env.userToken, map[string]any{"answers": []any{map[string]any{"question_id": 1, "selected_option": "A"}}}, http.StatusBadRequest},
		{"non numeric skill", env.userToken, `{"skill_id":"abc","answers":[{"question_id":1}]}`, http.StatusBadRequest},
		{"malformed json", env.userToken, `{"skill_id":`, http.StatusBadRequest},
		{"unknown skill", env.userToken, map[string]any{"skill_id": 999, "answers": []any{map[string]any{"question_id": 1, "selected_option": "A"}}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := env.do(t, http.MethodPost, "/api/v1/quiz/attempt", tt.tok, tt.body)
			if code != tt.want {
				t.Fatalf("status = %d (%s), want %d", code, body, tt.want)
			}
		})
	}

	var count int64
	env.db.Model(&models.QuizAttempt{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submissions wrote %d attempts", count)
	}
}

func TestRequestParameterValidation(t *testing.T) {
	env := newEnv(t)

	checks := []struct {
		method, path, tok string
		want              int
	}{
		{http.MethodGet, "/api/v1/quiz/skill/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/skill-gaps", env.adminToken, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/skill-gaps?user_id=1&threshold=abc", env.adminToken, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/skill-gaps?user_id=x", env.adminToken, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/skill-gaps?user_id=1&threshold=NaN", env.adminToken, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/skill-gaps?user_id=1&threshold=Inf", env.adminToken, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/reports/skill-gaps?user_id=1&threshold=-1", env.adminToken, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/quiz/attempts/999", env.userToken, http.StatusNotFound},
		{http.MethodGet, "/api/v1/skills/999", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/skills/1", env.userToken, http.StatusForbidden},
	}
	for _, c := range checks {
		code, body := env.do(t, c.method, c.path, c.tok, nil)
		if code != c.want {
			t.Errorf("%s %s = %d (%s), want %d", c.method, c.path, code, body, c.want)
		}
	}
}

func TestSkillAndQuestionAdmin(t *testing.T) {
	env := newEnv(t)
	skillID := env.createSkill(t, "Go")

	if code, _ := env.do(t, http.MethodPost, "/api/v1/skills", env.adminToken, map[string]any{"name": "Go"}); code != http.StatusConflict {
		t.Errorf("duplicate skill: %d, want 409", code)
	}
	if code, _ := env.do(t, http.MethodPost, "/api/v1/skills", env.userToken, map[string]any{"name": "Rust"}); code != http.StatusForbidden {
		t.Errorf("non-admin create skill: %d, want 403", code)
	}

	code, body := env.do(t, http.MethodGet, "/api/v1/skills", "", nil)
	if code != http.StatusOK || len(decode[[]models.Skill](t, body)) != 1 {
		t.Errorf("list skills = %d %s", code, body)
	}

	bad := map[string]any{"skill_id": skillID, "text": "Pick one", "options": "A|B", "correct_option": "A"}
	if code, body := env.do(t, http.MethodPost, "/api/v1/admin/questions", env.adminToken, bad); code != http.StatusBadRequest {
		t.Errorf("correct option by text: %d %s, want 400", code, body)
	}
	single := map[string]any{"skill_id": skillID, "text": "Pick one", "options": []string{"only"}, "correct_option": "0"}
	if code, _ := env.do(t, http.MethodPost, "/api/v1/admin/questions", env.adminToken, single); code != http.StatusBadRequest {
		t.Errorf("single option: %d, want 400", code)
	}

	qID := env.createQuestion(t, skillID, "Yes|No", "1", 0)
	code, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/questions/%d", qID), env.adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("get question: %d %s", code, body)
	}
	q := decode[handlers.AdminQuestion](t, body)
	if q.Weight != 1 || q.CorrectOption != "1" || len(q.Options) != 2 || q.Options[1].Text != "No" {
		t.Errorf("question = %+v", q)
	}

	update := map[string]any{"skill_id": skillID, "text": "Updated text", "options": []string{"x", "y", "z"}, "correct_option": "2", "weight": 3}
	code, body = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/questions/%d", qID), env.adminToken, update)
	if code != http.StatusOK || decode[handlers.AdminQuestion](t, body).Weight != 3 {
		t.Errorf("update question = %d %s", code, body)
	}

	code, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/questions?skill_id=%d", skillID), env.adminToken, nil)
	if code != http.StatusOK || len(decode[[]handlers.AdminQuestion](t, body)) != 1 {
		t.Errorf("list questions = %d %s", code, body)
	}

	if code, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/skills/%d", skillID), env.adminToken, nil); code != http.StatusNoContent {
		t.Errorf("delete skill: %d, want 204", code)
	}
	if code, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/questions/%d", qID), env.adminToken, nil); code != http.StatusOK {
		t.Errorf("question should survive skill deletion, got %d", code)
	}
	if code, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/questions/%d", qID), env.adminToken, nil); code != http.StatusNoContent {
		t.Errorf("delete question: %d, want 204", code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t)

	reg := map[string]any{"name": "New Learner", "email": "new@example.com", "password": "secret123"}
	code, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", reg)
	if code != http.StatusCreated {
		t.Fatalf("register: %d %s", code, body)
	}
	if decode[handlers.UserResponse](t, body).Role != models.RoleUser {
		t.Errorf("registered role = %s", body)
	}
	if code, _ := env.do(t, http.MethodPost, "/api/v1/auth/register", "", reg); code != http.StatusConflict {
		t.Errorf("duplicate register: %d, want 409", code)
	}

	code, body = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "new@example.com", "password": "secret123"})
	if code != http.StatusOK {
		t.Fatalf("login: %d %s", code, body)
	}
	login := decode[struct {
		Token string `json:"token"`
	}](t, body)

	code, _ = env.do(t, http.MethodGet, "/api/v1/reports/user/999", login.Token, nil)
	if code != http.StatusForbidden {
		t.Errorf("issued token reading someone else's history: %d, want 403", code)
	}

	if code, _ := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "new@example.com", "password": "wrong"}); code != http.StatusUnauthorized {
		t.Errorf("wrong password: %d, want 401", code)
	}

	env.db.Model(&models.User{}).Where("email = ?", "new@example.com").Update("active", false)
	if code, _ := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "new@example.com", "password": "secret123"}); code != http.StatusForbidden {
		t.Errorf("inactive login: %d, want 403", code)
	}
}

func TestDeactivatedAccountTokenRejected(t *testing.T) {
	env := newEnv(t)
	skillID := env.createSkill(t, "Go")
	submit := map[string]any{
		"skill_id": skillID,
		"answers":  []map[string]any{{"question_id": 1, "selected_option": "A"}},
	}
	historyPath := fmt.Sprintf("/api/v1/reports/user/%d", env.user.ID)

	if code, body := env.do(t, http.MethodGet, historyPath, env.userToken, nil); code != http.StatusOK {
		t.Fatalf("history before deactivation: %d %s", code, body)
	}

	env.db.Model(&models.User{}).Where("id = ?", env.user.ID).Update("active", false)

	if code, _ := env.do(t, http.MethodGet, historyPath, env.userToken, nil); code != http.StatusForbidden {
		t.Errorf("history after deactivation: %d, want 403", code)
	}
	if code, _ := env.do(t, http.MethodPost, "/api/v1/quiz/attempt", env.userToken, submit); code != http.StatusForbidden {
		t.Errorf("submit after deactivation: %d, want 403", code)
	}

	var count int64
	env.db.Model(&models.QuizAttempt{}).Count(&count)
	if count != 0 {
		t.Errorf("deactivated account wrote %d attempts", count)
	}

	env.db.Delete(&models.User{}, env.user.ID)
	if code, _ := env.do(t, http.MethodGet, historyPath, env.userToken, nil); code != http.StatusUnauthorized {
		t.Errorf("history for removed account: %d, want 401", code)
	}
}
