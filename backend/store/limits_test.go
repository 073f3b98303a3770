package store

import (
	"testing"

	"korsify/backend/models"

	"github.com/stretchr/testify/require"
)

func TestCanCreateCourseFreeTierCountsOnlyPublished(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "free")

	// Черновики не учитываются в лимите
	for i := 0; i < 5; i++ {
		createTestCourse(t, s, user.ID, "draft")
	}
	createTestCourse(t, s, user.ID, "published")
	createTestCourse(t, s, user.ID, "published")

	decision, err := s.CanCreateCourse(user.ID)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.NotNil(t, decision.CoursesCreated)
	require.Equal(t, 2, *decision.CoursesCreated)
	require.NotNil(t, decision.Limit)
	require.Equal(t, FreeCourseLimit, *decision.Limit)
}

func TestCanCreateCourseFreeTierDeniedAtLimit(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "free")

	for i := 0; i < FreeCourseLimit; i++ {
		createTestCourse(t, s, user.ID, "published")
	}

	decision, err := s.CanCreateCourse(user.ID)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t,
		"Free tier users can only publish up to 3 courses. Upgrade to Pro for unlimited courses.",
		decision.Reason)
	require.Equal(t, FreeCourseLimit, *decision.CoursesCreated)
}

func TestCanCreateCourseProTierUnlimited(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "pro")

	for i := 0; i < FreeCourseLimit+2; i++ {
		createTestCourse(t, s, user.ID, "published")
	}

	decision, err := s.CanCreateCourse(user.ID)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.Empty(t, decision.Reason)
}

func TestCanCreateCourseUnknownUserDenied(t *testing.T) {
	s := newTestStore(t)

	decision, err := s.CanCreateCourse(99999)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, "User not found", decision.Reason)
}

func TestCanEnrollStudentUsesCreatorTier(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "free")
	course := createTestCourse(t, s, creator.ID, "published")

	for i := 0; i < FreeStudentLimit; i++ {
		learner := createTestUser(t, s, "pro")
		enrollment := models.Enrollment{LearnerID: learner.ID, CourseID: course.ID}
		require.NoError(t, s.CreateEnrollment(&enrollment))
	}

	// Тариф записывающегося ученика роли не играет
	decision, err := s.CanEnrollStudent(course.ID)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t,
		"Free tier courses are limited to 10 students. Course creator needs to upgrade to Pro for unlimited students.",
		decision.Reason)
	require.Equal(t, FreeStudentLimit, *decision.StudentsEnrolled)
}

func TestCanEnrollStudentProCreatorUnlimited(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "pro")
	course := createTestCourse(t, s, creator.ID, "published")

	for i := 0; i < FreeStudentLimit+3; i++ {
		learner := createTestUser(t, s, "free")
		enrollment := models.Enrollment{LearnerID: learner.ID, CourseID: course.ID}
		require.NoError(t, s.CreateEnrollment(&enrollment))
	}

	decision, err := s.CanEnrollStudent(course.ID)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestGetUserSubscriptionInfo(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "free")
	course := createTestCourse(t, s, creator.ID, "published")
	createTestCourse(t, s, creator.ID, "draft")

	learner := createTestUser(t, s, "free")
	enrollment := models.Enrollment{LearnerID: learner.ID, CourseID: course.ID}
	require.NoError(t, s.CreateEnrollment(&enrollment))

	info, found, err := s.GetUserSubscriptionInfo(creator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "free", info.Tier)
	require.Equal(t, 1, info.CoursesCreated)
	require.Equal(t, 1, info.TotalStudents)
	require.NotNil(t, info.CourseLimit)
	require.Equal(t, FreeCourseLimit, *info.CourseLimit)
	require.NotNil(t, info.StudentLimitPerCourse)
}

func TestGetUserSubscriptionInfoProHasNoLimits(t *testing.T) {
	s := newTestStore(t)
	creator := createTestUser(t, s, "pro")

	info, found, err := s.GetUserSubscriptionInfo(creator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "pro", info.Tier)
	// nil-лимиты сериализуются в null — «без ограничений»
	require.Nil(t, info.CourseLimit)
	require.Nil(t, info.StudentLimitPerCourse)
}
