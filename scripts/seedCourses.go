package main

import (
	"lms/config"
	"lms/database"
	"lms/models"
	courseModel "lms/models/course"
	"log"
)

// Seeds a small demo catalog: one free course with a gated quiz and one paid
// course, plus a student and an instructor account for manual testing.
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	instructor := models.User{Name: "Priya Instructor", Email: "instructor@example.com", Role: models.RoleInstructor}
	if err := db.Where("email = ?", instructor.Email).FirstOrCreate(&instructor).Error; err != nil {
		log.Fatalf("Failed to seed instructor: %v", err)
	}

	student := models.User{Name: "Sam Student", Email: "student@example.com", Role: models.RoleStudent}
	if err := db.Where("email = ?", student.Email).FirstOrCreate(&student).Error; err != nil {
		log.Fatalf("Failed to seed student: %v", err)
	}

	freeCourse := courseModel.Course{
		Title:        "Introduction to Go",
		Description:  "A two module starter course with a gated quiz.",
		InstructorID: instructor.ID,
		Duration:     6,
		Status:       "ACTIVE",
		IsPublished:  true,
	}
	if err := db.Where("title = ?", freeCourse.Title).FirstOrCreate(&freeCourse).Error; err != nil {
		log.Fatalf("Failed to seed course: %v", err)
	}

	basics := courseModel.Module{CourseID: freeCourse.ID, Title: "Basics", OrderIndex: 1}
	if err := db.Where("course_id = ? AND title = ?", freeCourse.ID, basics.Title).FirstOrCreate(&basics).Error; err != nil {
		log.Fatalf("Failed to seed module: %v", err)
	}

	advanced := courseModel.Module{CourseID: freeCourse.ID, Title: "Going Further", OrderIndex: 2}
	if err := db.Where("course_id = ? AND title = ?", freeCourse.ID, advanced.Title).FirstOrCreate(&advanced).Error; err != nil {
		log.Fatalf("Failed to seed module: %v", err)
	}

	materials := []courseModel.Material{
		{CourseID: freeCourse.ID, ModuleID: basics.ID, Title: "Welcome", ContentType: "TEXT", TextContent: "Welcome to the course.", OrderIndex: 1, IsPublished: true},
		{CourseID: freeCourse.ID, ModuleID: basics.ID, Title: "Setup Walkthrough", ContentType: "VIDEO", VideoURL: "https://videos.example.com/setup.mp4", OrderIndex: 2, IsPublished: true},
		{CourseID: freeCourse.ID, ModuleID: advanced.ID, Title: "Concurrency Patterns", ContentType: "TEXT", TextContent: "Goroutines and channels.", OrderIndex: 1, IsPublished: true},
	}
	for _, m := range materials {
		material := m
		if err := db.Where("module_id = ? AND title = ?", material.ModuleID, material.Title).FirstOrCreate(&material).Error; err != nil {
			log.Fatalf("Failed to seed material: %v", err)
		}
	}

	quiz := courseModel.Quiz{ModuleID: basics.ID, CourseID: freeCourse.ID, Title: "Basics Checkpoint", MinScore: 70}
	if err := db.Where("module_id = ?", basics.ID).FirstOrCreate(&quiz).Error; err != nil {
		log.Fatalf("Failed to seed quiz: %v", err)
	}

	question := courseModel.QuizQuestion{QuizID: quiz.ID, Text: "Which keyword starts a goroutine?", Points: 2, OrderIndex: 1}
	if err := db.Where("quiz_id = ? AND text = ?", quiz.ID, question.Text).FirstOrCreate(&question).Error; err != nil {
		log.Fatalf("Failed to seed question: %v", err)
	}

	options := []courseModel.QuizOption{
		{QuestionID: question.ID, Text: "go", IsCorrect: true, OrderIndex: 1},
		{QuestionID: question.ID, Text: "run", OrderIndex: 2},
		{QuestionID: question.ID, Text: "async", OrderIndex: 3},
	}
	for _, o := range options {
		option := o
		if err := db.Where("question_id = ? AND text = ?", option.QuestionID, option.Text).FirstOrCreate(&option).Error; err != nil {
			log.Fatalf("Failed to seed option: %v", err)
		}
	}

	paidCourse := courseModel.Course{
		Title:        "Advanced Backend Engineering",
		Description:  "Paid course, enrollment activates after instructor approval.",
		InstructorID: instructor.ID,
		Duration:     12,
		Status:       "ACTIVE",
		IsPaid:       true,
		Price:        4999,
		IsPublished:  true,
	}
	if err := db.Where("title = ?", paidCourse.Title).FirstOrCreate(&paidCourse).Error; err != nil {
		log.Fatalf("Failed to seed course: %v", err)
	}

	paidModule := courseModel.Module{CourseID: paidCourse.ID, Title: "Systems Design", OrderIndex: 1}
	if err := db.Where("course_id = ? AND title = ?", paidCourse.ID, paidModule.Title).FirstOrCreate(&paidModule).Error; err != nil {
		log.Fatalf("Failed to seed module: %v", err)
	}

	paidMaterial := courseModel.Material{CourseID: paidCourse.ID, ModuleID: paidModule.ID, Title: "Designing for Scale", ContentType: "TEXT", TextContent: "Start with the data model.", OrderIndex: 1, IsPublished: true}
	if err := db.Where("module_id = ? AND title = ?", paidModule.ID, paidMaterial.Title).FirstOrCreate(&paidMaterial).Error; err != nil {
		log.Fatalf("Failed to seed material: %v", err)
	}

	log.Printf("Seed complete: courses %d (free) and %d (paid), student %d, instructor %d",
		freeCourse.ID, paidCourse.ID, student.ID, instructor.ID)
}
