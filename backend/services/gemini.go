package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// GeminiService генерирует структуру курса через Gemini API
type GeminiService struct {
	APIKey string
	Client *resty.Client
	Logger *log.Logger
}

func NewGeminiService(apiKey string, logger *log.Logger) *GeminiService {
	return &GeminiService{
		APIKey: apiKey,
		Client: resty.New(),
		Logger: logger,
	}
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"system_instruction"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiService) GenerateCourseStructure(documentContent, fileName string, opts GenerationOptions) (CourseStructure, error) {
	if g.APIKey == "" {
		return CourseStructure{}, fmt.Errorf("no API key configured for AI generation")
	}
	opts = opts.withDefaults()

	body := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemPrompt(opts)}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: userPrompt(documentContent, fileName, opts)}}}},
		GenerationConfig:  geminiGenConfig{ResponseMimeType: "application/json"},
	}

	var parsed geminiResponse
	resp, err := g.Client.R().
		SetQueryParam("key", g.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&parsed).
		Post(geminiEndpoint)
	if err != nil {
		return CourseStructure{}, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		if parsed.Error != nil {
			return CourseStructure{}, fmt.Errorf("gemini API error: %s", parsed.Error.Message)
		}
		return CourseStructure{}, fmt.Errorf("gemini API error: status %d", resp.StatusCode())
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return CourseStructure{}, fmt.Errorf("empty response from model")
	}

	rawJSON := parsed.Candidates[0].Content.Parts[0].Text
	var structure CourseStructure
	if err := json.Unmarshal([]byte(rawJSON), &structure); err != nil {
		return CourseStructure{}, fmt.Errorf("failed to parse course structure: %w", err)
	}
	return structure, nil
}

// systemPrompt собирает системную инструкцию. Структура промпта общая
// для всех провайдеров.
func systemPrompt(opts GenerationOptions) string {
	prompt := fmt.Sprintf(`You are an advanced educational content generator focused on creating comprehensive online courses from source documents.

CRITICAL UNIQUENESS REQUIREMENTS:
- EVERY module must have a UNIQUE, distinct title and focus
- EVERY lesson must have a UNIQUE title and cover different aspects
- NO duplicate content, titles, or themes across modules or lessons
- Ensure progressive learning without repetition

CONTENT DEVELOPMENT (1000-1200 words per lesson):
- Begin each lesson with clear learning objectives
- Address common misconceptions with clear explanations
- Use clear analogies and metaphors to explain complex concepts
- Format content as HTML: <h2>, <h3>, <p>, <ul>, <ol>, <li>, <strong>, <em>

Adjust content for %s level learners.
`, opts.DifficultyLevel)

	if opts.GenerateQuizzes {
		prompt += fmt.Sprintf(`
QUIZ GENERATION:
MANDATORY: Generate EXACTLY %d unique questions for EVERY %s.
- Mix question types: multiple choice, true/false, short answer
- Include answer explanations that reinforce learning
- Questions must reference specific facts from the source document
`, opts.QuestionsPerQuiz, opts.QuizFrequency)
	}
	if opts.IncludeExercises {
		prompt += "\nInclude hands-on exercises in EVERY lesson, using examples from the source document.\n"
	}
	if opts.IncludeExamples {
		prompt += "\nIncorporate practical real-world examples throughout each lesson.\n"
	}

	prompt += fmt.Sprintf(`
OUTPUT REQUIREMENTS:
- Generate EXACTLY %d modules, each with 3-4 lessons
- ALL content must be factually derived from the provided document
- Do NOT invent information not present in the source

Respond with a valid JSON object: {"title", "description", "estimatedDuration", "difficultyLevel", "modules": [{"title", "description", "lessons": [{"title", "content", "estimatedDuration", "quiz": {"questions": [{"question", "options", "correctAnswer", "explanation"}]}}], "quiz"}]}.
`, opts.ModuleCount)
	return prompt
}

func userPrompt(documentContent, fileName string, opts GenerationOptions) string {
	prompt := fmt.Sprintf(`Create a comprehensive online course from the following document:

Document Name: %s
Target Language: %s
Target Audience: %s
Content Focus: %s
Number of Modules: EXACTLY %d modules
`, fileName, opts.Language, opts.TargetAudience, opts.ContentFocus, opts.ModuleCount)

	if opts.GenerateQuizzes {
		prompt += fmt.Sprintf("Quiz Requirements: Generate EXACTLY %d unique questions per %s\n", opts.QuestionsPerQuiz, opts.QuizFrequency)
	}
	prompt += "\nDocument Content:\n" + documentContent
	return prompt
}
