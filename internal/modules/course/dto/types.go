package dto

type CourseOutput struct {
	ID   string
	Name string
}

type DirectoryOutput struct {
	Courses  []CourseOutput
	Selected []CourseOutput
	// All is true when no single course is selected.
	All bool
}
