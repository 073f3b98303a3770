package store

import (
	"errors"

	"korsify/backend/models"

	"gorm.io/gorm"
)

func (s *Store) CreateDocument(doc *models.Document) error {
	return s.DB.Create(doc).Error
}

func (s *Store) GetDocument(id uint) (models.Document, bool, error) {
	var doc models.Document
	err := s.DB.First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Document{}, false, nil
	}
	if err != nil {
		return models.Document{}, false, err
	}
	return doc, true, nil
}

func (s *Store) GetUserDocuments(userID uint) ([]models.Document, error) {
	var docs []models.Document
	err := s.DB.Where("uploaded_by = ?", userID).
		Order("created_at desc").Find(&docs).Error
	return docs, err
}

func (s *Store) UpdateDocument(id uint, updates map[string]interface{}) error {
	return s.DB.Model(&models.Document{}).Where("id = ?", id).Updates(updates).Error
}

// Привязка документов к курсу

func (s *Store) AddDocumentToCourse(courseID, documentID uint) (models.CourseDocument, error) {
	link := models.CourseDocument{CourseID: courseID, DocumentID: documentID}
	err := s.DB.Create(&link).Error
	return link, err
}

func (s *Store) AddDocumentsToCourse(courseID uint, documentIDs []uint) ([]models.CourseDocument, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	links := make([]models.CourseDocument, 0, len(documentIDs))
	for _, docID := range documentIDs {
		links = append(links, models.CourseDocument{CourseID: courseID, DocumentID: docID})
	}
	if err := s.DB.Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (s *Store) RemoveDocumentFromCourse(courseID, documentID uint) error {
	return s.DB.Where("course_id = ? AND document_id = ?", courseID, documentID).
		Delete(&models.CourseDocument{}).Error
}

func (s *Store) GetCourseDocuments(courseID uint) ([]models.Document, error) {
	var docs []models.Document
	err := s.DB.
		Joins("JOIN course_documents ON course_documents.document_id = documents.id").
		Where("course_documents.course_id = ?", courseID).
		Order("course_documents.created_at desc").
		Find(&docs).Error
	return docs, err
}
