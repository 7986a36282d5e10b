package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmissionCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		current string
		role    Role
		next    string
		allowed bool
	}{
		{"student submits", SubmissionStatusAssigned, RoleStudent, SubmissionStatusSubmitted, true},
		{"student unsubmits", SubmissionStatusSubmitted, RoleStudent, SubmissionStatusAssigned, true},
		{"student keeps assigned", SubmissionStatusAssigned, RoleStudent, SubmissionStatusAssigned, true},
		{"student cannot review", SubmissionStatusAssigned, RoleStudent, SubmissionStatusReviewed, false},
		{"student cannot reopen reviewed", SubmissionStatusReviewed, RoleStudent, SubmissionStatusSubmitted, false},
		{"teacher reviews assigned", SubmissionStatusAssigned, RoleTeacher, SubmissionStatusReviewed, true},
		{"teacher reviews submitted", SubmissionStatusSubmitted, RoleTeacher, SubmissionStatusReviewed, true},
		{"teacher re-reviews", SubmissionStatusReviewed, RoleTeacher, SubmissionStatusReviewed, true},
		{"teacher cannot submit", SubmissionStatusAssigned, RoleTeacher, SubmissionStatusSubmitted, false},
		{"teacher cannot reassign", SubmissionStatusReviewed, RoleTeacher, SubmissionStatusAssigned, false},
		{"no role", SubmissionStatusAssigned, RoleNone, SubmissionStatusSubmitted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submission := Submission{Status: tc.current}
			require.Equal(t, tc.allowed, submission.CanTransition(tc.role, tc.next))
		})
	}
}

func TestParseRole(t *testing.T) {
	require.Equal(t, RoleTeacher, ParseRole(" Teacher "))
	require.Equal(t, RoleStudent, ParseRole("student"))
	require.Equal(t, RoleNone, ParseRole("admin"))
	require.Equal(t, RoleNone, ParseRole(""))
}

func TestIsValidTestType(t *testing.T) {
	require.True(t, IsValidTestType(TestTypeIncludes))
	require.True(t, IsValidTestType(TestTypeExact))
	require.False(t, IsValidTestType("maybe"))
}
