package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
)

func createExercise(t *testing.T, env testApp, token string) dto.ExerciseResponse {
	t.Helper()

	resp := env.request(t, http.MethodPost, "/api/v1/classrooms/create", token, map[string]string{"name": "Physics"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/v1/classrooms/physics/exercises/create", token, map[string]string{"name": "Velocity"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var exercise dto.ExerciseResponse
	decodeResponse(t, resp, &exercise)
	return exercise
}

func TestCreateTestRejectsUnknownType(t *testing.T) {
	env := setupApp(t)
	teacher := env.register(t, "physteacher", "teacher")
	exercise := createExercise(t, env, teacher)

	resp := env.request(t, http.MethodPost, "/api/v1/exercises/"+exercise.ID.String()+"/tests/create", teacher, map[string]string{
		"name":            "prints speed",
		"test_type":       "maybe",
		"expected_output": "42",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Contains(t, errorMessage(t, resp), "test_type")

	var count int64
	require.NoError(t, env.db.Model(&models.TestCase{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTestCaseCRUD(t *testing.T) {
	env := setupApp(t)
	teacher := env.register(t, "labteacher", "teacher")
	exercise := createExercise(t, env, teacher)
	base := "/api/v1/exercises/" + exercise.ID.String()

	resp := env.request(t, http.MethodPost, base+"/tests/create", teacher, map[string]string{
		"name":            "prints speed",
		"test_type":       "includes",
		"expected_output": "42",
		"help_text":       "<b>hint</b><script>alert(1)</script>",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created dto.TestCaseResponse
	decodeResponse(t, resp, &created)
	require.NotContains(t, created.HelpText, "script")

	resp = env.request(t, http.MethodGet, base+"/tests", teacher, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list dto.TestCaseListResponse
	decodeResponse(t, resp, &list)
	require.Len(t, list.Tests, 1)

	testPath := "/api/v1/tests/" + created.ID.String()
	resp = env.request(t, http.MethodPut, testPath+"/update", teacher, map[string]string{"test_type": "exact"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated dto.TestCaseResponse
	decodeResponse(t, resp, &updated)
	require.Equal(t, "exact", updated.TestType)
	require.Equal(t, "prints speed", updated.Name)

	resp = env.request(t, http.MethodPut, testPath+"/update", teacher, map[string]string{"test_type": "sometimes"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, testPath+"/delete", teacher, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, testPath, teacher, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/v1/tests/not-a-uuid", teacher, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
