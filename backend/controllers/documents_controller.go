package controllers

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"korsify/backend/config"
	"korsify/backend/models"
	"korsify/backend/store"
	"korsify/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Типы файлов, из которых можно генерировать курс
var allowedDocumentTypes = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

const maxDocumentSize = 50 << 20 // 50 MB

type DocumentsController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewDocumentsController(s *store.Store, cfg *config.Config) *DocumentsController {
	return &DocumentsController{Store: s, Cfg: cfg}
}

// [+] Upload godoc
// @Summary Upload a source document
// @Description Stores the file on disk and registers a document record
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /documents [post]
func (dc *DocumentsController) Upload(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "No file provided")
	}

	if fileHeader.Size > maxDocumentSize {
		return utils.BadRequest(c, "File exceeds the 50 MB limit")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedDocumentTypes[ext] {
		return utils.BadRequest(c, "Unsupported file type")
	}

	if err := os.MkdirAll(dc.Cfg.UploadDir, 0o755); err != nil {
		return utils.InternalServerError(c, "Could not prepare upload directory")
	}

	// Имя на диске — случайный UUID, оригинальное имя храним в записи
	storedName := uuid.NewString() + ext
	dst := filepath.Join(dc.Cfg.UploadDir, storedName)
	if err := c.SaveFile(fileHeader, dst); err != nil {
		return utils.InternalServerError(c, "Could not save file")
	}

	doc := models.Document{
		UploadedBy: userID,
		FileName:   fileHeader.Filename,
		StoredName: storedName,
		FileType:   strings.TrimPrefix(ext, "."),
		FileSize:   fileHeader.Size,
		Status:     "uploaded",
	}

	if err := dc.Store.CreateDocument(&doc); err != nil {
		os.Remove(dst)
		return utils.InternalServerError(c, "Could not create document record")
	}

	return utils.Created(c, doc)
}

// [+] List godoc
// @Summary List current user's documents
// @Tags documents
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /documents [get]
func (dc *DocumentsController) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	docs, err := dc.Store.GetUserDocuments(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, docs)
}

// [+] Get godoc
// @Summary Get a document by ID
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /documents/{id} [get]
func (dc *DocumentsController) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	docID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid document ID")
	}

	doc, found, err := dc.Store.GetDocument(uint(docID))
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if !found || doc.UploadedBy != userID {
		return utils.NotFound(c, "Document not found")
	}

	return utils.Success(c, fiber.StatusOK, doc)
}
