package services

import (
	"encoding/json"
	"fmt"
	"log"

	"korsify/backend/models"
	"korsify/backend/store"
)

// Generator — конвейер генерации: берёт документ, вызывает провайдера
// и сохраняет дерево курса. Статусы курса: draft → processing → published.
type Generator struct {
	Store  *store.Store
	AI     AIService
	Logger *log.Logger
}

func NewGenerator(st *store.Store, ai AIService, logger *log.Logger) *Generator {
	return &Generator{Store: st, AI: ai, Logger: logger}
}

// GenerateCourse наполняет существующий курс контентом из документа.
// Джоб фиксирует шаги и итог; при ошибке курс возвращается в draft.
func (g *Generator) GenerateCourse(courseID, documentID uint, opts GenerationOptions) (models.AIGenerationJob, error) {
	doc, found, err := g.Store.GetDocument(documentID)
	if err != nil {
		return models.AIGenerationJob{}, err
	}
	if !found {
		return models.AIGenerationJob{}, fmt.Errorf("document %d not found", documentID)
	}

	job := models.AIGenerationJob{
		DocumentID:  documentID,
		CourseID:    courseID,
		Provider:    opts.Provider,
		Status:      "processing",
		CurrentStep: "analyzing_document",
	}
	if err := g.Store.CreateGenerationJob(&job); err != nil {
		return models.AIGenerationJob{}, err
	}

	if _, err := g.Store.UpdateCourse(courseID, map[string]interface{}{"status": "processing"}); err != nil {
		return job, err
	}

	structure, err := g.AI.GenerateCourseStructure(doc.ProcessedContent, doc.FileName, opts)
	if err != nil {
		g.Logger.Printf("course generation failed for course %d: %v", courseID, err)
		g.failJob(job.ID, courseID, err)
		return job, err
	}

	if _, err := g.Store.UpdateGenerationJob(job.ID, map[string]interface{}{
		"current_step": "saving_content", "progress": 60,
	}); err != nil {
		return job, err
	}

	if err := g.persistStructure(courseID, structure, opts); err != nil {
		g.failJob(job.ID, courseID, err)
		return job, err
	}

	if _, err := g.Store.UpdateCourse(courseID, map[string]interface{}{
		"status":             "published",
		"title":              structure.Title,
		"description":        structure.Description,
		"difficulty_level":   structure.DifficultyLevel,
		"estimated_duration": structure.EstimatedDuration,
	}); err != nil {
		return job, err
	}

	if _, err := g.Store.AddDocumentToCourse(courseID, documentID); err != nil {
		return job, err
	}

	job, err = g.Store.UpdateGenerationJob(job.ID, map[string]interface{}{
		"status": "completed", "progress": 100, "current_step": "done",
	})
	return job, err
}

func (g *Generator) persistStructure(courseID uint, structure CourseStructure, opts GenerationOptions) error {
	for mi, gm := range structure.Modules {
		module := models.Module{
			CourseID:    courseID,
			Title:       gm.Title,
			Description: gm.Description,
			OrderIndex:  mi,
		}
		if err := g.Store.CreateModule(&module); err != nil {
			return err
		}

		for li, gl := range gm.Lessons {
			lesson := models.Lesson{
				ModuleID:          module.ID,
				Title:             gl.Title,
				Content:           gl.Content,
				OrderIndex:        li,
				EstimatedDuration: gl.EstimatedDuration,
			}
			if err := g.Store.CreateLesson(&lesson); err != nil {
				return err
			}

			if gl.Quiz != nil && len(gl.Quiz.Questions) > 0 {
				if err := g.createQuiz(module.ID, &lesson.ID, gl.Title+" Quiz", gl.Quiz.Questions); err != nil {
					return err
				}
			}
		}

		// Квиз уровня модуля хранится с lesson_id = NULL
		if gm.Quiz != nil && len(gm.Quiz.Questions) > 0 {
			if err := g.createQuiz(module.ID, nil, gm.Title+" Quiz", gm.Quiz.Questions); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) createQuiz(moduleID uint, lessonID *uint, title string, questions []models.QuizQuestion) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	quiz := models.Quiz{
		ModuleID:  moduleID,
		LessonID:  lessonID,
		Title:     title,
		Questions: raw,
	}
	return g.Store.CreateQuiz(&quiz)
}

func (g *Generator) failJob(jobID, courseID uint, cause error) {
	if _, err := g.Store.UpdateGenerationJob(jobID, map[string]interface{}{
		"status": "failed", "error_message": cause.Error(),
	}); err != nil {
		g.Logger.Printf("failed to mark job %d as failed: %v", jobID, err)
	}
	if _, err := g.Store.UpdateCourse(courseID, map[string]interface{}{"status": "draft"}); err != nil {
		g.Logger.Printf("failed to reset course %d status: %v", courseID, err)
	}
}
