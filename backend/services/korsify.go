package services

import (
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

const korsifyEndpoint = "https://api.korsify.com/v1/generate"

// KorsifyService — премиальный провайдер генерации. При отсутствии
// ключа или ошибке запроса явно откатывается на Gemini: фолбэк
// логируется, а не происходит молча.
type KorsifyService struct {
	APIKey   string
	Client   *resty.Client
	Fallback AIService
	Logger   *log.Logger
}

func NewKorsifyService(apiKey string, fallback AIService, logger *log.Logger) *KorsifyService {
	return &KorsifyService{
		APIKey:   apiKey,
		Client:   resty.New(),
		Fallback: fallback,
		Logger:   logger,
	}
}

func (k *KorsifyService) GenerateCourseStructure(documentContent, fileName string, opts GenerationOptions) (CourseStructure, error) {
	opts = opts.withDefaults()

	if k.APIKey == "" {
		k.Logger.Println("Korsify API key not found, falling back to Gemini model")
		return k.Fallback.GenerateCourseStructure(documentContent, fileName, opts)
	}

	var structure CourseStructure
	resp, err := k.Client.R().
		SetHeader("Authorization", "Bearer "+k.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"content":  documentContent,
			"fileName": fileName,
			"options":  opts,
		}).
		SetResult(&structure).
		Post(korsifyEndpoint)
	if err != nil {
		k.Logger.Printf("Korsify API call failed, falling back to Gemini: %v", err)
		return k.Fallback.GenerateCourseStructure(documentContent, fileName, opts)
	}
	if resp.StatusCode() != 200 {
		k.Logger.Printf("Korsify API error %d, falling back to Gemini", resp.StatusCode())
		return k.Fallback.GenerateCourseStructure(documentContent, fileName, opts)
	}
	if len(structure.Modules) == 0 {
		return CourseStructure{}, fmt.Errorf("empty response from Korsify API")
	}
	return structure, nil
}

// SelectAIService выбирает провайдера по явной настройке
func SelectAIService(provider, geminiKey, korsifyKey string, logger *log.Logger) AIService {
	gemini := NewGeminiService(geminiKey, logger)
	if provider == "korsify" {
		logger.Println("Using AI model: Korsify AI (Premium)")
		return NewKorsifyService(korsifyKey, gemini, logger)
	}
	logger.Println("Using AI model: Google Gemini")
	return gemini
}
