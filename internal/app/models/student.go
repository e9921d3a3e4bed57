package models

// Student defines the student model based on the 'students' table.
// FacultyID is a weak reference: the student never owns the faculty
// lifecycle, it only points at it. AvatarURL is derived state set by
// the avatar upload flow and is null until an avatar exists.
type Student struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	FacultyID *int64  `json:"facultyId"`
	AvatarURL *string `json:"avatarUrl"`
}
