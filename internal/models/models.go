package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Classroom{},
		&ClassroomMembership{},
		&Exercise{},
		&ClassroomExercise{},
		&TestCase{},
		&ExerciseTest{},
		&Submission{},
		&ActivityLog{},
	}
}
