package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
)

var (
	teacherActor = Actor{ID: 1, Username: "tina", Role: models.RoleTeacher}
	studentActor = Actor{ID: 2, Username: "sam", Role: models.RoleStudent}
	otherStudent = Actor{ID: 3, Username: "ola", Role: models.RoleStudent}
)

type submissionFixture struct {
	svc      SubmissionService
	repo     *memorySubmissionRepo
	activity *memoryActivityRepo
	events   *recordingPublisher
	exercise models.Exercise
}

func newSubmissionFixture(t *testing.T) submissionFixture {
	t.Helper()
	exercise := models.Exercise{ID: uuid.New(), Name: "Intro", Slug: "intro", Code: "print(0)", CreatorID: teacherActor.ID}
	repo := newMemorySubmissionRepo(
		models.User{ID: studentActor.ID, Username: studentActor.Username, FullName: "Sam Rivera", Role: models.RoleStudent},
		models.User{ID: otherStudent.ID, Username: otherStudent.Username, FullName: "Ola Nowak", Role: models.RoleStudent},
	)
	activityRepo := &memoryActivityRepo{}
	events := &recordingPublisher{}
	activity := NewActivityService(activityRepo, testValidator(), testLogger())

	return submissionFixture{
		svc:      NewSubmissionService(repo, newMemoryExerciseRepo(exercise), testValidator(), activity, events, testLogger()),
		repo:     repo,
		activity: activityRepo,
		events:   events,
		exercise: exercise,
	}
}

func strPtr(v string) *string { return &v }

func (f submissionFixture) create(t *testing.T, actor Actor) dto.SubmissionResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.exercise.ID, actor, dto.SubmissionCreateRequest{Code: strPtr("print(1)")})
	require.NoError(t, err)
	return resp
}

func TestSubmissionServiceCreate(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()

	resp := f.create(t, studentActor)
	require.Equal(t, models.SubmissionStatusAssigned, resp.Status)
	require.Equal(t, "print(1)", resp.SubmittedCode)
	require.Equal(t, "sam", resp.Student.Username)
	require.Equal(t, "Sam Rivera", resp.Student.FullName, "create returns the same student view as get")

	_, err := f.svc.Create(ctx, f.exercise.ID, studentActor, dto.SubmissionCreateRequest{})
	require.ErrorIs(t, err, ErrSubmissionExists)
	require.ErrorIs(t, err, ErrConflict)

	starter, err := f.svc.Create(ctx, f.exercise.ID, otherStudent, dto.SubmissionCreateRequest{})
	require.NoError(t, err)
	require.Equal(t, "print(0)", starter.SubmittedCode, "omitted code copies the starter code")

	_, err = f.svc.Create(ctx, f.exercise.ID, teacherActor, dto.SubmissionCreateRequest{})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Create(ctx, uuid.New(), Actor{ID: 9, Role: models.RoleStudent}, dto.SubmissionCreateRequest{})
	require.ErrorIs(t, err, ErrExerciseNotFound)

	require.Equal(t, []string{EventSubmissionCreated, EventSubmissionCreated}, f.events.types())
	require.Len(t, f.activity.entries, 2)
	require.Equal(t, ActionSubmissionCreated, f.activity.entries[0].Action)
}

func TestSubmissionServiceRejectsBinaryCode(t *testing.T) {
	f := newSubmissionFixture(t)

	binary := string([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d})
	_, err := f.svc.Create(context.Background(), f.exercise.ID, studentActor, dto.SubmissionCreateRequest{Code: &binary})
	require.ErrorIs(t, err, ErrSubmissionCodeBinary)
	require.Empty(t, f.repo.items)

	withNul := "print(1)\x00"
	_, err = f.svc.Create(context.Background(), f.exercise.ID, studentActor, dto.SubmissionCreateRequest{Code: &withNul})
	require.ErrorIs(t, err, ErrSubmissionCodeBinary)
	require.Empty(t, f.repo.items)
}

func TestSubmissionServiceAcceptsSignatureLikeSource(t *testing.T) {
	sources := []string{
		"MZ = 1\n",
		"BM = 5\nprint(BM)",
		"GIF89a = 1",
		"%PDF = 'not a pdf'",
		"café = 'naïve'\n",
	}
	for _, code := range sources {
		require.True(t, isPlainText(code), code)
	}

	f := newSubmissionFixture(t)
	created, err := f.svc.Create(context.Background(), f.exercise.ID, studentActor, dto.SubmissionCreateRequest{Code: strPtr("MZ = 1\n")})
	require.NoError(t, err)
	require.Equal(t, "MZ = 1\n", created.SubmittedCode)

	updated, err := f.svc.Update(context.Background(), created.ID, studentActor, dto.SubmissionUpdateRequest{SubmittedCode: strPtr("GIF89a = 1")})
	require.NoError(t, err)
	require.Equal(t, "GIF89a = 1", updated.SubmittedCode)
}

func TestSubmissionServiceTransitions(t *testing.T) {
	cases := []struct {
		name    string
		actor   Actor
		start   string
		patch   dto.SubmissionUpdateRequest
		wantErr error
		status  string
	}{
		{name: "student submits", actor: studentActor, start: models.SubmissionStatusAssigned, patch: dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusSubmitted)}, status: models.SubmissionStatusSubmitted},
		{name: "student unsubmits", actor: studentActor, start: models.SubmissionStatusSubmitted, patch: dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusAssigned)}, status: models.SubmissionStatusAssigned},
		{name: "student cannot review", actor: studentActor, start: models.SubmissionStatusAssigned, patch: dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusReviewed)}, wantErr: ErrValidation},
		{name: "student locked after review", actor: studentActor, start: models.SubmissionStatusReviewed, patch: dto.SubmissionUpdateRequest{SubmittedCode: strPtr("x")}, wantErr: ErrSubmissionReviewed},
		{name: "student cannot write feedback", actor: studentActor, start: models.SubmissionStatusSubmitted, patch: dto.SubmissionUpdateRequest{Feedback: strPtr("great")}, wantErr: ErrForbidden},
		{name: "other student denied", actor: otherStudent, start: models.SubmissionStatusAssigned, patch: dto.SubmissionUpdateRequest{SubmittedCode: strPtr("x")}, wantErr: ErrForbidden},
		{name: "teacher reviews from assigned", actor: teacherActor, start: models.SubmissionStatusAssigned, patch: dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusReviewed)}, status: models.SubmissionStatusReviewed},
		{name: "teacher cannot reopen", actor: teacherActor, start: models.SubmissionStatusReviewed, patch: dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusAssigned)}, wantErr: ErrInvalidStatusTransition},
		{name: "teacher cannot edit code", actor: teacherActor, start: models.SubmissionStatusSubmitted, patch: dto.SubmissionUpdateRequest{SubmittedCode: strPtr("x")}, wantErr: ErrSubmissionFieldDenied},
		{name: "unknown role denied", actor: Actor{ID: 4, Role: models.RoleNone}, start: models.SubmissionStatusAssigned, patch: dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusSubmitted)}, wantErr: ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSubmissionFixture(t)
			created := f.create(t, studentActor)
			stored := f.repo.items[created.ID]
			stored.Status = tc.start
			f.repo.items[created.ID] = stored

			resp, err := f.svc.Update(context.Background(), created.ID, tc.actor, tc.patch)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Equal(t, tc.start, f.repo.items[created.ID].Status, "failed update must not persist")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.Status)
		})
	}
}

func TestSubmissionServicePartialPatch(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()
	created := f.create(t, studentActor)

	resp, err := f.svc.Update(ctx, created.ID, studentActor, dto.SubmissionUpdateRequest{SubmittedCode: strPtr("print(2)")})
	require.NoError(t, err)
	require.Equal(t, "print(2)", resp.SubmittedCode)
	require.Equal(t, models.SubmissionStatusAssigned, resp.Status, "absent status is left unchanged")

	due := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	resp, err = f.svc.Update(ctx, created.ID, teacherActor, dto.SubmissionUpdateRequest{Feedback: strPtr("<b>Good</b> job<script>x</script>"), DueDate: &due})
	require.NoError(t, err)
	require.Equal(t, "<b>Good</b> job", resp.Feedback)
	require.Equal(t, "print(2)", resp.SubmittedCode)
	require.NotNil(t, resp.DueDate)
	require.True(t, due.Equal(*resp.DueDate))

	resp, err = f.svc.Update(ctx, created.ID, teacherActor, dto.SubmissionUpdateRequest{Feedback: strPtr("")})
	require.NoError(t, err)
	require.Empty(t, resp.Feedback, "explicit empty value clears the field")

	_, err = f.svc.Update(ctx, created.ID, studentActor, dto.SubmissionUpdateRequest{})
	require.ErrorIs(t, err, ErrEmptyPatch)

	_, err = f.svc.Update(ctx, uuid.New(), teacherActor, dto.SubmissionUpdateRequest{Feedback: strPtr("x")})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionServiceLifecyclePublishesStatusChanges(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()
	created := f.create(t, studentActor)

	_, err := f.svc.Update(ctx, created.ID, studentActor, dto.SubmissionUpdateRequest{Status: strPtr(models.SubmissionStatusSubmitted)})
	require.NoError(t, err)

	final, err := f.svc.Update(ctx, created.ID, teacherActor, dto.SubmissionUpdateRequest{
		Status:   strPtr(models.SubmissionStatusReviewed),
		Feedback: strPtr("Good job"),
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusReviewed, final.Status)
	require.Equal(t, "Good job", final.Feedback)

	require.Equal(t, []string{EventSubmissionCreated, EventSubmissionStatusChanged, EventSubmissionStatusChanged}, f.events.types())
	last := f.activity.entries[len(f.activity.entries)-1]
	require.Equal(t, ActionSubmissionStatusChanged, last.Action)
	require.Equal(t, models.SubmissionStatusSubmitted, last.Metadata["previous_status"])
}

func TestSubmissionServiceReadAccess(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()
	created := f.create(t, studentActor)

	_, err := f.svc.Get(ctx, created.ID, studentActor)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, created.ID, teacherActor)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, created.ID, otherStudent)
	require.ErrorIs(t, err, ErrForbidden)

	own, err := f.svc.GetOwn(ctx, f.exercise.ID, studentActor)
	require.NoError(t, err)
	require.Equal(t, created.ID, own.ID)
	_, err = f.svc.GetOwn(ctx, f.exercise.ID, otherStudent)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := f.svc.ListForExercise(ctx, f.exercise.ID, teacherActor)
	require.NoError(t, err)
	require.Len(t, list.Submissions, 1)
	_, err = f.svc.ListForExercise(ctx, f.exercise.ID, studentActor)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ListForExercise(ctx, uuid.New(), teacherActor)
	require.ErrorIs(t, err, ErrExerciseNotFound)
}
