// Package services содержит генерацию курсов из документов через
// внешние AI-провайдеры и конвейер сохранения результата.
package services

import "korsify/backend/models"

// GenerationOptions — параметры генерации, приходящие от автора курса
type GenerationOptions struct {
	Provider         string `json:"provider"` // gemini, korsify
	Language         string `json:"language"`
	TargetAudience   string `json:"targetAudience"`
	ContentFocus     string `json:"contentFocus"`
	DifficultyLevel  string `json:"difficultyLevel"`
	ModuleCount      int    `json:"moduleCount"`
	GenerateQuizzes  bool   `json:"generateQuizzes"`
	QuizFrequency    string `json:"quizFrequency"` // lesson, module
	QuestionsPerQuiz int    `json:"questionsPerQuiz"`
	IncludeExercises bool   `json:"includeExercises"`
	IncludeExamples  bool   `json:"includeExamples"`
}

// withDefaults заполняет незаданные поля значениями по умолчанию
func (o GenerationOptions) withDefaults() GenerationOptions {
	if o.Language == "" {
		o.Language = "English"
	}
	if o.TargetAudience == "" {
		o.TargetAudience = "General learners"
	}
	if o.ContentFocus == "" {
		o.ContentFocus = "Comprehensive understanding"
	}
	if o.DifficultyLevel == "" {
		o.DifficultyLevel = "intermediate"
	}
	if o.ModuleCount <= 0 {
		o.ModuleCount = 3
	}
	if o.QuestionsPerQuiz <= 0 {
		o.QuestionsPerQuiz = 5
	}
	return o
}

type GeneratedQuiz struct {
	Questions []models.QuizQuestion `json:"questions"`
}

type GeneratedLesson struct {
	Title             string         `json:"title"`
	Content           string         `json:"content"`
	EstimatedDuration int            `json:"estimatedDuration"`
	Quiz              *GeneratedQuiz `json:"quiz,omitempty"`
}

type GeneratedModule struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Lessons     []GeneratedLesson `json:"lessons"`
	Quiz        *GeneratedQuiz    `json:"quiz,omitempty"`
}

// CourseStructure — результат генерации: полное дерево курса
type CourseStructure struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	EstimatedDuration int               `json:"estimatedDuration"`
	DifficultyLevel   string            `json:"difficultyLevel"`
	Modules           []GeneratedModule `json:"modules"`
}

// AIService — общий интерфейс провайдеров генерации. Провайдер
// выбирается явной конфигурацией, а не глобальным состоянием.
type AIService interface {
	GenerateCourseStructure(documentContent, fileName string, opts GenerationOptions) (CourseStructure, error)
}
