package models

// ModuleContent is a read snapshot of a module with its lessons and
// optional assignment, as loaded for one aggregation pass. Lessons carry
// no guaranteed order; consumers sort.
type ModuleContent struct {
	Module     Module
	Lessons    []Lesson
	Assignment *Assignment
}

// CourseContent is a read snapshot of a course with its module tree.
type CourseContent struct {
	Course  Course
	Modules []ModuleContent
}
