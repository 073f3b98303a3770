package store

import (
	"testing"

	"korsify/backend/models"

	"github.com/stretchr/testify/require"
)

func TestCourseTemplatesActiveOnlyOrderedByName(t *testing.T) {
	s := newTestStore(t)

	b := models.CourseTemplate{Name: "Bootcamp", Category: "tech", IsActive: true}
	require.NoError(t, s.CreateCourseTemplate(&b))
	a := models.CourseTemplate{Name: "Academic", Category: "science", IsActive: true}
	require.NoError(t, s.CreateCourseTemplate(&a))
	hidden := models.CourseTemplate{Name: "Archived", Category: "tech", IsActive: false}
	require.NoError(t, s.CreateCourseTemplate(&hidden))

	templates, err := s.GetCourseTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 2)
	// Неактивные скрыты, остальные по алфавиту
	require.Equal(t, "Academic", templates[0].Name)
	require.Equal(t, "Bootcamp", templates[1].Name)

	byCategory, err := s.GetCourseTemplatesByCategory("tech")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "Bootcamp", byCategory[0].Name)
}

func TestCourseTemplateTagsDefaultToEmptyList(t *testing.T) {
	s := newTestStore(t)

	template := models.CourseTemplate{Name: "Plain", IsActive: true}
	require.NoError(t, s.CreateCourseTemplate(&template))

	stored, found, err := s.GetCourseTemplate(template.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, "[]", string(stored.Tags))
}

func TestCourseTemplateUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)

	template := models.CourseTemplate{Name: "Draft", Category: "tech", IsActive: true}
	require.NoError(t, s.CreateCourseTemplate(&template))

	require.NoError(t, s.UpdateCourseTemplate(template.ID, map[string]interface{}{
		"name":      "Final",
		"is_active": false,
	}))

	stored, found, err := s.GetCourseTemplate(template.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Final", stored.Name)
	require.False(t, stored.IsActive)

	require.NoError(t, s.DeleteCourseTemplate(template.ID))
	_, found, err = s.GetCourseTemplate(template.ID)
	require.NoError(t, err)
	require.False(t, found)
}
