package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/database"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) Actor {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return Actor{ID: user.ID, Username: user.Username, Role: user.Role}
}

type memorySubmissionRepo struct {
	items map[uuid.UUID]models.Submission
	users map[uint]models.User
}

func newMemorySubmissionRepo(users ...models.User) *memorySubmissionRepo {
	repo := &memorySubmissionRepo{items: map[uuid.UUID]models.Submission{}, users: map[uint]models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

// withStudent mimics the Student preload of the gorm repository.
func (m *memorySubmissionRepo) withStudent(item models.Submission) models.Submission {
	if user, ok := m.users[item.StudentID]; ok {
		item.Student = user
	}
	return item
}

func (m *memorySubmissionRepo) ListByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.Submission, error) {
	var result []models.Submission
	for _, item := range m.items {
		if item.ExerciseID == exerciseID {
			result = append(result, m.withStudent(item))
		}
	}
	return result, nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	item, ok := m.items[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.withStudent(item), nil
}

func (m *memorySubmissionRepo) GetByStudentAndExercise(ctx context.Context, studentID uint, exerciseID uuid.UUID) (models.Submission, error) {
	for _, item := range m.items {
		if item.StudentID == studentID && item.ExerciseID == exerciseID {
			return m.withStudent(item), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if _, err := m.GetByStudentAndExercise(ctx, submission.StudentID, submission.ExerciseID); err == nil {
		return gorm.ErrDuplicatedKey
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	m.items[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := m.items[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	submission.UpdatedAt = time.Now()
	m.items[submission.ID] = *submission
	return nil
}

type memoryExerciseRepo struct {
	items map[uuid.UUID]models.Exercise
}

func newMemoryExerciseRepo(exercises ...models.Exercise) *memoryExerciseRepo {
	repo := &memoryExerciseRepo{items: map[uuid.UUID]models.Exercise{}}
	for _, exercise := range exercises {
		repo.items[exercise.ID] = exercise
	}
	return repo
}

func (m *memoryExerciseRepo) ListByClassroom(ctx context.Context, classroomID uint) ([]models.Exercise, error) {
	return nil, nil
}

func (m *memoryExerciseRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	item, ok := m.items[id]
	if !ok {
		return models.Exercise{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *memoryExerciseRepo) CreateInClassroom(ctx context.Context, classroomID uint, exercise *models.Exercise) error {
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	m.items[exercise.ID] = *exercise
	return nil
}

func (m *memoryExerciseRepo) Update(ctx context.Context, exercise *models.Exercise) error {
	m.items[exercise.ID] = *exercise
	return nil
}

func (m *memoryExerciseRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []SubmissionEvent
}

func (p *recordingPublisher) PublishSubmissionEvent(ctx context.Context, event SubmissionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}
