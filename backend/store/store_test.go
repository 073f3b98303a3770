package store

import (
	"fmt"
	"testing"
	"time"

	"korsify/backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Фиксированная "текущая" дата для детерминированных тестов
var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
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
	)
	require.NoError(t, err)

	s := New(db)
	s.Now = func() time.Time { return testNow }
	return s
}

func createTestUser(t *testing.T, s *Store, tier string) models.User {
	t.Helper()
	user := models.User{
		Email:            fmt.Sprintf("user-%d@example.com", time.Now().UnixNano()),
		FirstName:        "Test",
		LastName:         "User",
		SubscriptionTier: tier,
	}
	require.NoError(t, s.CreateUser(&user))
	return user
}

func createTestCourse(t *testing.T, s *Store, creatorID uint, status string) models.Course {
	t.Helper()
	course := models.Course{
		CreatorID: creatorID,
		Title:     "Test Course",
		Status:    status,
	}
	require.NoError(t, s.CreateCourse(&course))
	return course
}

func createTestLesson(t *testing.T, s *Store, courseID uint, content string) (models.Module, models.Lesson) {
	t.Helper()
	module := models.Module{CourseID: courseID, Title: "Module 1"}
	require.NoError(t, s.CreateModule(&module))
	lesson := models.Lesson{ModuleID: module.ID, Title: "Lesson 1", Content: content}
	require.NoError(t, s.CreateLesson(&lesson))
	return module, lesson
}

func TestUserLookupAbsenceIsNotAnError(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.GetUser(12345)
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = s.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	require.False(t, found)
}

func TestCreateGoogleUser(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateGoogleUser("g@example.com", "google-123", "Grace", "Hopper")
	require.NoError(t, err)
	require.True(t, user.EmailVerified)
	require.Equal(t, "google", user.AuthProvider)

	byID, found, err := s.GetUserByGoogleID("google-123")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, user.ID, byID.ID)
}

func TestSearchCoursesOnlyPublished(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "pro")

	published := models.Course{CreatorID: creator.ID, Title: "Go Basics", Status: "published"}
	require.NoError(t, s.CreateCourse(&published))
	draft := models.Course{CreatorID: creator.ID, Title: "Go Advanced", Status: "draft"}
	require.NoError(t, s.CreateCourse(&draft))

	results, err := s.SearchCourses("go")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, published.ID, results[0].ID)

	// Поиск нечувствителен к регистру
	results, err = s.SearchCourses("BASICS")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestCourseWithDetailsTree(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "free")
	course := createTestCourse(t, s, creator.ID, "published")

	module := models.Module{CourseID: course.ID, Title: "M1", OrderIndex: 0}
	require.NoError(t, s.CreateModule(&module))
	lessonB := models.Lesson{ModuleID: module.ID, Title: "Second", OrderIndex: 1}
	require.NoError(t, s.CreateLesson(&lessonB))
	lessonA := models.Lesson{ModuleID: module.ID, Title: "First", OrderIndex: 0}
	require.NoError(t, s.CreateLesson(&lessonA))

	details, found, err := s.GetCourseWithDetails(course.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, creator.ID, details.Creator.ID)
	require.Len(t, details.Modules, 1)
	require.Len(t, details.Modules[0].Lessons, 2)
	// Уроки упорядочены по order_index, а не по времени создания
	require.Equal(t, "First", details.Modules[0].Lessons[0].Title)
	require.Equal(t, "Second", details.Modules[0].Lessons[1].Title)
}

func TestCreateLessonDefaultsJSONFields(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "free")
	course := createTestCourse(t, s, creator.ID, "draft")
	_, lesson := createTestLesson(t, s, course.ID, "body")

	stored, found, err := s.GetLesson(lesson.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, "[]", string(stored.Attachments))
	require.JSONEq(t, "[]", string(stored.SourceReferences))
}

func TestUpsertUserCreatesThenUpdates(t *testing.T) {
	s := newTestStore(t)

	user := models.User{Email: "upsert@example.com", FirstName: "Before"}
	require.NoError(t, s.UpsertUser(&user))
	firstID := user.ID

	update := models.User{Email: "upsert@example.com", FirstName: "After"}
	require.NoError(t, s.UpsertUser(&update))
	require.Equal(t, firstID, update.ID)

	stored, found, err := s.GetUserByEmail("upsert@example.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "After", stored.FirstName)
}

func TestProviderIDLookups(t *testing.T) {
	s := newTestStore(t)

	user := models.User{Email: "oauth@example.com", AppleID: "apple-1", LinkedInID: "li-1"}
	require.NoError(t, s.CreateUser(&user))

	byApple, found, err := s.GetUserByAppleID("apple-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, user.ID, byApple.ID)

	byLinkedIn, found, err := s.GetUserByLinkedInID("li-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, user.ID, byLinkedIn.ID)

	_, found, err = s.GetUserByGoogleID("missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestModuleQuizVsLessonQuiz(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "free")
	course := createTestCourse(t, s, creator.ID, "draft")
	module, lesson := createTestLesson(t, s, course.ID, "body")

	lessonQuiz := models.Quiz{ModuleID: module.ID, LessonID: &lesson.ID, Title: "Lesson Quiz", Questions: []byte("[]")}
	require.NoError(t, s.CreateQuiz(&lessonQuiz))
	moduleQuiz := models.Quiz{ModuleID: module.ID, Title: "Module Quiz", Questions: []byte("[]")}
	require.NoError(t, s.CreateQuiz(&moduleQuiz))

	got, found, err := s.GetModuleQuiz(module.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, moduleQuiz.ID, got.ID)

	got, found, err = s.GetLessonQuiz(lesson.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, lessonQuiz.ID, got.ID)

	all, err := s.GetModuleQuizzes(module.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
