package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"korsify/backend/config"
	"korsify/backend/models"
	"korsify/backend/routes"
	"korsify/backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app   *fiber.App
	store *store.Store
	cfg   *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Course{},
		&models.CourseTemplate{},
		&models.CourseDocument{},
		&models.Module{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Enrollment{},
		&models.Progress{},
		&models.QuizAttempt{},
		&models.AIGenerationJob{},
		&models.LearningMetrics{},
		&models.DailyActivity{},
	))

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
		UploadDir:  t.TempDir(),
		AIProvider: "gemini",
	}

	s := store.New(db)
	app := fiber.New()
	routes.SetupRoutes(app, s, cfg, log.New(io.Discard, "", 0))

	return &testEnv{app: app, store: s, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// registerUser регистрирует пользователя через API и возвращает токен и ID
func (e *testEnv) registerUser(t *testing.T, email, role string) (string, uint) {
	t.Helper()

	resp := e.request(t, "POST", "/api/auth/register", "", fiber.Map{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token := body["token"].(string)
	userID := uint(body["user"].(map[string]interface{})["id"].(float64))

	if role != "" {
		roleResp := e.request(t, "PUT", "/api/users/me/role", token, fiber.Map{"role": role})
		require.Equal(t, fiber.StatusOK, roleResp.StatusCode)
	}
	return token, userID
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	token, _ := env.registerUser(t, "alice@example.com", "")
	require.NotEmpty(t, token)

	// Повторная регистрация на тот же email отклоняется
	resp := env.request(t, "POST", "/api/auth/register", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "another",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, "POST", "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestGoogleAuthCreatesAndReuses(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/auth/google", "", fiber.Map{
		"google_id":  "g-123",
		"email":      "bob@example.com",
		"first_name": "Bob",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	first := decodeBody(t, resp)
	firstID := first["user"].(map[string]interface{})["id"].(float64)

	// Повторный вход с тем же Google ID возвращает того же пользователя
	resp = env.request(t, "POST", "/api/auth/google", "", fiber.Map{
		"google_id": "g-123",
		"email":     "bob@example.com",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	second := decodeBody(t, resp)
	assert.Equal(t, firstID, second["user"].(map[string]interface{})["id"].(float64))
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, "GET", "/api/users/me", "garbage-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCourseLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerUser(t, "creator@example.com", "creator")

	resp := env.request(t, "POST", "/api/courses", token, fiber.Map{
		"title":       "Go for Gophers",
		"description": "All about Go",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	courseID := uint(created["data"].(map[string]interface{})["ID"].(float64))

	// Черновик не виден в каталоге
	resp = env.request(t, "GET", "/api/courses", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	catalog := decodeBody(t, resp)
	assert.Empty(t, catalog["data"])

	resp = env.request(t, "POST", fmt.Sprintf("/api/courses/%d/publish", courseID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "GET", "/api/courses", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	catalog = decodeBody(t, resp)
	assert.Len(t, catalog["data"], 1)

	// Чужой пользователь не может редактировать курс
	otherToken, _ := env.registerUser(t, "other@example.com", "creator")
	resp = env.request(t, "PUT", fmt.Sprintf("/api/courses/%d", courseID), otherToken, fiber.Map{
		"title": "Hijacked",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPublishDeniedAtFreeLimit(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "creator@example.com", "creator")

	for i := 0; i < store.FreeCourseLimit; i++ {
		course := models.Course{CreatorID: userID, Title: "C", Status: "published"}
		require.NoError(t, env.store.CreateCourse(&course))
	}

	resp := env.request(t, "POST", "/api/courses", token, fiber.Map{"title": "One more"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	courseID := uint(created["data"].(map[string]interface{})["ID"].(float64))

	resp = env.request(t, "POST", fmt.Sprintf("/api/courses/%d/publish", courseID), token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	limit := body["limit"].(map[string]interface{})
	assert.Equal(t, false, limit["allowed"])
	assert.Contains(t, limit["reason"], "Upgrade to Pro")
}

func TestEnrollmentDeniedAtStudentLimit(t *testing.T) {
	env := newTestEnv(t)
	_, creatorID := env.registerUser(t, "creator@example.com", "creator")

	course := models.Course{CreatorID: creatorID, Title: "Popular", Status: "published"}
	require.NoError(t, env.store.CreateCourse(&course))

	for i := 0; i < store.FreeStudentLimit; i++ {
		learner := models.User{Email: fmt.Sprintf("l%d@example.com", i)}
		require.NoError(t, env.store.CreateUser(&learner))
		enrollment := models.Enrollment{LearnerID: learner.ID, CourseID: course.ID}
		require.NoError(t, env.store.CreateEnrollment(&enrollment))
	}

	learnerToken, _ := env.registerUser(t, "latecomer@example.com", "learner")
	resp := env.request(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), learnerToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	limit := body["limit"].(map[string]interface{})
	assert.Contains(t, limit["reason"], "limited to 10 students")
}

func TestLessonProgressFlow(t *testing.T) {
	env := newTestEnv(t)
	_, creatorID := env.registerUser(t, "creator@example.com", "creator")
	learnerToken, _ := env.registerUser(t, "learner@example.com", "learner")

	course := models.Course{CreatorID: creatorID, Title: "Course", Status: "published"}
	require.NoError(t, env.store.CreateCourse(&course))
	module := models.Module{CourseID: course.ID, Title: "M"}
	require.NoError(t, env.store.CreateModule(&module))
	lesson := models.Lesson{ModuleID: module.ID, Title: "L"}
	require.NoError(t, env.store.CreateLesson(&lesson))

	resp := env.request(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), learnerToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Прогресс по уроку без записи на курс запрещён
	strangerToken, _ := env.registerUser(t, "stranger@example.com", "learner")
	resp = env.request(t, "POST", fmt.Sprintf("/api/lessons/%d/progress", lesson.ID), strangerToken, fiber.Map{
		"completed": true,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.request(t, "POST", fmt.Sprintf("/api/lessons/%d/progress", lesson.ID), learnerToken, fiber.Map{
		"completed":          true,
		"study_time_minutes": 25,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 100.0, data["progress_percentage"])

	// Единственный урок завершён — курс отмечен пройденным
	resp = env.request(t, "GET", "/api/learning/courses", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	courses := body["data"].([]interface{})
	require.Len(t, courses, 1)
	enrollment := courses[0].(map[string]interface{})["enrollment"].(map[string]interface{})
	assert.NotNil(t, enrollment["CompletedAt"])

	// Метрики зафиксировали занятие
	resp = env.request(t, "GET", "/api/learning/metrics", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	metrics := body["data"].(map[string]interface{})
	assert.Equal(t, 1.0, metrics["CurrentStreak"])
	assert.Equal(t, 25.0, metrics["TotalStudyTime"])

	// 25 минут записываются в прогресс ровно один раз: 1500 секунд
	var progress []models.Progress
	require.NoError(t, env.store.DB.Find(&progress).Error)
	require.Len(t, progress, 1)
	assert.Equal(t, 1500, progress[0].TimeSpent)
}

func TestTodayActivityFollowsStoreClock(t *testing.T) {
	env := newTestEnv(t)
	_, creatorID := env.registerUser(t, "creator@example.com", "creator")
	learnerToken, _ := env.registerUser(t, "learner@example.com", "learner")

	// "Сегодня" определяется часами хранилища, а не системными
	fixedNow := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	env.store.Now = func() time.Time { return fixedNow }

	course := models.Course{CreatorID: creatorID, Title: "Course", Status: "published"}
	require.NoError(t, env.store.CreateCourse(&course))
	module := models.Module{CourseID: course.ID, Title: "M"}
	require.NoError(t, env.store.CreateModule(&module))
	lesson := models.Lesson{ModuleID: module.ID, Title: "L"}
	require.NoError(t, env.store.CreateLesson(&lesson))

	resp := env.request(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), learnerToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.request(t, "POST", fmt.Sprintf("/api/lessons/%d/progress", lesson.ID), learnerToken, fiber.Map{
		"study_time_minutes": 15,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "GET", "/api/learning/activity/today", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 15.0, data["StudyTime"])
}

func TestQuizAttemptGrading(t *testing.T) {
	env := newTestEnv(t)
	_, creatorID := env.registerUser(t, "creator@example.com", "creator")
	learnerToken, _ := env.registerUser(t, "learner@example.com", "learner")

	course := models.Course{CreatorID: creatorID, Title: "Course", Status: "published"}
	require.NoError(t, env.store.CreateCourse(&course))
	module := models.Module{CourseID: course.ID, Title: "M"}
	require.NoError(t, env.store.CreateModule(&module))

	questions, err := json.Marshal([]models.QuizQuestion{
		{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{Question: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris"},
	})
	require.NoError(t, err)
	quiz := models.Quiz{ModuleID: module.ID, Title: "Q", Questions: questions}
	require.NoError(t, env.store.CreateQuiz(&quiz))

	resp := env.request(t, "POST", fmt.Sprintf("/api/quizzes/%d/attempts", quiz.ID), learnerToken, fiber.Map{
		"answers": []string{"4", "Rome"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 1.0, data["correct"])
	attempt := data["attempt"].(map[string]interface{})
	assert.Equal(t, 50.0, attempt["Score"])

	// Ответов меньше, чем вопросов — попытка отклоняется
	resp = env.request(t, "POST", fmt.Sprintf("/api/quizzes/%d/attempts", quiz.ID), learnerToken, fiber.Map{
		"answers": []string{"4"},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubscriptionEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerUser(t, "creator@example.com", "creator")

	course := models.Course{CreatorID: userID, Title: "C", Status: "published"}
	require.NoError(t, env.store.CreateCourse(&course))

	resp := env.request(t, "GET", "/api/users/me/subscription", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "free", data["tier"])
	assert.Equal(t, 1.0, data["coursesCreated"])
	assert.Equal(t, float64(store.FreeCourseLimit), data["courseLimit"])
}

func TestCreatorRoleRequiredForAnalytics(t *testing.T) {
	env := newTestEnv(t)
	learnerToken, _ := env.registerUser(t, "learner@example.com", "learner")

	resp := env.request(t, "GET", "/api/analytics/creator", learnerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Сторона ученика доступна
	resp = env.request(t, "GET", "/api/analytics/learner", learnerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreatorAnalyticsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, creatorID := env.registerUser(t, "creator@example.com", "creator")

	course := models.Course{CreatorID: creatorID, Title: "C", Status: "published"}
	require.NoError(t, env.store.CreateCourse(&course))
	learner := models.User{Email: "l@example.com"}
	require.NoError(t, env.store.CreateUser(&learner))
	enrollment := models.Enrollment{LearnerID: learner.ID, CourseID: course.ID}
	require.NoError(t, env.store.CreateEnrollment(&enrollment))

	resp := env.request(t, "GET", "/api/analytics/creator", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 1.0, data["totalCourses"])
	assert.Equal(t, 1.0, data["totalLearners"])

	resp = env.request(t, "GET", "/api/analytics/creator/revenue?months=30", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "GET", "/api/analytics/creator/demographics", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, 1.0, data["totalStudents"])
}

func TestCourseTemplatesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	creatorToken, _ := env.registerUser(t, "creator@example.com", "creator")
	learnerToken, _ := env.registerUser(t, "learner@example.com", "learner")

	// Создание шаблонов доступно только авторам
	resp := env.request(t, "POST", "/api/templates", learnerToken, fiber.Map{"name": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.request(t, "POST", "/api/templates", creatorToken, fiber.Map{
		"name":     "Language Course",
		"category": "languages",
		"tags":     []string{"beginner"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	templateID := uint(created["data"].(map[string]interface{})["ID"].(float64))

	resp = env.request(t, "POST", "/api/templates", creatorToken, fiber.Map{
		"name":     "Coding Bootcamp",
		"category": "tech",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Каталог виден и ученикам, фильтр по категории работает
	resp = env.request(t, "GET", "/api/templates?category=languages", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Len(t, body["data"], 1)

	// Деактивированный шаблон пропадает из каталога
	resp = env.request(t, "PUT", fmt.Sprintf("/api/templates/%d", templateID), creatorToken, fiber.Map{
		"is_active": false,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "GET", "/api/templates", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	templates := body["data"].([]interface{})
	require.Len(t, templates, 1)
	assert.Equal(t, "Coding Bootcamp", templates[0].(map[string]interface{})["Name"])
}

func TestDraftCourseHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	creatorToken, creatorID := env.registerUser(t, "creator@example.com", "creator")
	learnerToken, _ := env.registerUser(t, "learner@example.com", "learner")

	course := models.Course{CreatorID: creatorID, Title: "Secret", Status: "draft"}
	require.NoError(t, env.store.CreateCourse(&course))

	resp := env.request(t, "GET", fmt.Sprintf("/api/courses/%d", course.ID), learnerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.request(t, "GET", fmt.Sprintf("/api/courses/%d", course.ID), creatorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
