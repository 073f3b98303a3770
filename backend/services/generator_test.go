package services

import (
	"errors"
	"io"
	"log"
	"testing"

	"korsify/backend/models"
	"korsify/backend/store"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubAIService struct {
	structure CourseStructure
	err       error
	calls     int
	lastOpts  GenerationOptions
}

func (s *stubAIService) GenerateCourseStructure(documentContent, fileName string, opts GenerationOptions) (CourseStructure, error) {
	s.calls++
	s.lastOpts = opts
	return s.structure, s.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newGeneratorHarness(t *testing.T, ai AIService) (*Generator, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Course{},
		&models.CourseDocument{},
		&models.Module{},
		&models.Lesson{},
		&models.Quiz{},
		&models.AIGenerationJob{},
	))

	st := store.New(db)
	return NewGenerator(st, ai, testLogger()), st
}

func seedCourseAndDocument(t *testing.T, st *store.Store) (models.Course, models.Document) {
	t.Helper()
	course := models.Course{CreatorID: 1, Title: "Untitled", Status: "draft"}
	require.NoError(t, st.CreateCourse(&course))
	doc := models.Document{
		UploadedBy:       1,
		FileName:         "syllabus.pdf",
		FileType:         "pdf",
		Status:           "processed",
		ProcessedContent: "lecture notes",
	}
	require.NoError(t, st.CreateDocument(&doc))
	return course, doc
}

func TestGenerateCoursePersistsStructure(t *testing.T) {
	ai := &stubAIService{structure: CourseStructure{
		Title:             "Intro to Databases",
		Description:       "Generated course",
		EstimatedDuration: 120,
		DifficultyLevel:   "beginner",
		Modules: []GeneratedModule{
			{
				Title: "Relational Basics",
				Lessons: []GeneratedLesson{
					{Title: "Tables", Content: "...", EstimatedDuration: 10},
					{
						Title:   "Joins",
						Content: "...",
						Quiz: &GeneratedQuiz{Questions: []models.QuizQuestion{
							{Question: "What is a join?", Options: []string{"a", "b"}, CorrectAnswer: "a"},
						}},
					},
				},
				Quiz: &GeneratedQuiz{Questions: []models.QuizQuestion{
					{Question: "Module recap?", Options: []string{"x", "y"}, CorrectAnswer: "y"},
				}},
			},
		},
	}}

	gen, st := newGeneratorHarness(t, ai)
	course, doc := seedCourseAndDocument(t, st)

	job, err := gen.GenerateCourse(course.ID, doc.ID, GenerationOptions{Provider: "gemini"})
	require.NoError(t, err)
	require.Equal(t, "completed", job.Status)
	require.Equal(t, 100, job.Progress)
	require.Equal(t, "done", job.CurrentStep)
	require.Equal(t, 1, ai.calls)

	updated, found, err := st.GetCourse(course.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "published", updated.Status)
	require.Equal(t, "Intro to Databases", updated.Title)
	require.Equal(t, 120, updated.EstimatedDuration)

	courseModules, err := st.GetCourseModules(course.ID)
	require.NoError(t, err)
	require.Len(t, courseModules, 1)

	lessons, err := st.GetModuleLessons(courseModules[0].ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	require.Equal(t, 0, lessons[0].OrderIndex)
	require.Equal(t, 1, lessons[1].OrderIndex)

	// Квиз урока привязан к уроку, квиз модуля хранится с lesson_id NULL
	_, found, err = st.GetLessonQuiz(lessons[1].ID)
	require.NoError(t, err)
	require.True(t, found)
	moduleQuiz, found, err := st.GetModuleQuiz(courseModules[0].ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Relational Basics Quiz", moduleQuiz.Title)

	// Документ привязан к курсу
	docs, err := st.GetCourseDocuments(course.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestGenerateCourseFailureResetsCourse(t *testing.T) {
	ai := &stubAIService{err: errors.New("model unavailable")}
	gen, st := newGeneratorHarness(t, ai)
	course, doc := seedCourseAndDocument(t, st)

	job, err := gen.GenerateCourse(course.ID, doc.ID, GenerationOptions{})
	require.Error(t, err)

	failed, found, err := st.GetGenerationJob(job.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "failed", failed.Status)
	require.Contains(t, failed.ErrorMessage, "model unavailable")

	// Курс возвращается в черновик
	updated, _, err := st.GetCourse(course.ID)
	require.NoError(t, err)
	require.Equal(t, "draft", updated.Status)
}

func TestGenerateCourseMissingDocument(t *testing.T) {
	ai := &stubAIService{}
	gen, st := newGeneratorHarness(t, ai)
	course := models.Course{CreatorID: 1, Status: "draft"}
	require.NoError(t, st.CreateCourse(&course))

	_, err := gen.GenerateCourse(course.ID, 999, GenerationOptions{})
	require.Error(t, err)
	require.Equal(t, 0, ai.calls)
}

func TestKorsifyServiceFallsBackWithoutKey(t *testing.T) {
	fallback := &stubAIService{structure: CourseStructure{
		Title:   "From Gemini",
		Modules: []GeneratedModule{{Title: "M"}},
	}}
	korsify := NewKorsifyService("", fallback, testLogger())

	structure, err := korsify.GenerateCourseStructure("content", "file.pdf", GenerationOptions{})
	require.NoError(t, err)
	require.Equal(t, "From Gemini", structure.Title)
	require.Equal(t, 1, fallback.calls)
	// Дефолты применяются до фолбэка
	require.Equal(t, "English", fallback.lastOpts.Language)
	require.Equal(t, 3, fallback.lastOpts.ModuleCount)
}

func TestSelectAIService(t *testing.T) {
	svc := SelectAIService("korsify", "gem-key", "kor-key", testLogger())
	_, isKorsify := svc.(*KorsifyService)
	require.True(t, isKorsify)

	svc = SelectAIService("gemini", "gem-key", "", testLogger())
	_, isGemini := svc.(*GeminiService)
	require.True(t, isGemini)

	// Неизвестный провайдер откатывается на Gemini
	svc = SelectAIService("", "gem-key", "", testLogger())
	_, isGemini = svc.(*GeminiService)
	require.True(t, isGemini)
}

func TestGenerationOptionsDefaults(t *testing.T) {
	opts := GenerationOptions{}.withDefaults()
	require.Equal(t, "English", opts.Language)
	require.Equal(t, "General learners", opts.TargetAudience)
	require.Equal(t, "intermediate", opts.DifficultyLevel)
	require.Equal(t, 3, opts.ModuleCount)
	require.Equal(t, 5, opts.QuestionsPerQuiz)

	// Явно заданные значения не перетираются
	opts = GenerationOptions{Language: "Spanish", ModuleCount: 6}.withDefaults()
	require.Equal(t, "Spanish", opts.Language)
	require.Equal(t, 6, opts.ModuleCount)
}
