// utils/seed.go
package utils

import (
	"log"

	"eco-learn-system/models"

	"gorm.io/gorm"
)

// SeedDefaults inserts the starter daily tasks and courses on first boot.
// It is idempotent: rows are only created when the tables are empty, so a
// restart never duplicates content and admin edits are never clobbered.
func SeedDefaults(db *gorm.DB) error {
	if err := seedTasks(db); err != nil {
		return err
	}
	return seedCourses(db)
}

func seedTasks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Task{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tasks := []models.Task{
		{Title: "Use a reusable water bottle", Description: "Skip single-use plastic bottles for the whole day.", Icon: "💧", XP: 50, Active: true},
		{Title: "Take public transport or bike", Description: "Leave the car at home for at least one trip.", Icon: "🚲", XP: 75, Active: true},
		{Title: "Eat a plant-based meal", Description: "Swap one meal for a fully plant-based one.", Icon: "🥗", XP: 50, Active: true},
		{Title: "Unplug unused electronics", Description: "Cut standby power from chargers and devices you are not using.", Icon: "🔌", XP: 40, Active: true},
		{Title: "Recycle properly", Description: "Sort today's waste into the right bins.", Icon: "♻️", XP: 40, Active: true},
		{Title: "Take a shorter shower", Description: "Keep it under five minutes.", Icon: "🚿", XP: 30, Active: true},
		{Title: "Pick up litter", Description: "Collect and bin litter you find outside.", Icon: "🌍", XP: 60, ProofRequired: true, Active: true},
	}
	if err := db.Create(&tasks).Error; err != nil {
		return err
	}
	log.Printf("🌱 Seeded %d default tasks", len(tasks))
	return nil
}

func seedCourses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	courses := []struct {
		course  models.Course
		lessons []models.Lesson
	}{
		{
			course: models.Course{
				Title:       "Climate Change Basics",
				Slug:        "climate-change-basics",
				Description: "What drives global warming and what we can do about it.",
				Category:    "Climate",
			},
			lessons: []models.Lesson{
				{Title: "The Greenhouse Effect", Duration: "10m", Position: 1},
				{Title: "Carbon Cycles Explained", Duration: "12m", Position: 2},
				{Title: "Reading Climate Data", Duration: "15m", Position: 3},
			},
		},
		{
			course: models.Course{
				Title:       "Sustainable Living at Home",
				Slug:        "sustainable-living-at-home",
				Description: "Practical habits that cut your household footprint.",
				Category:    "Lifestyle",
			},
			lessons: []models.Lesson{
				{Title: "Reducing Household Waste", Duration: "8m", Position: 1},
				{Title: "Smart Energy Habits", Duration: "10m", Position: 2},
			},
		},
		{
			course: models.Course{
				Title:       "Renewable Energy 101",
				Slug:        "renewable-energy-101",
				Description: "Solar, wind and the grid of the future.",
				Category:    "Energy",
			},
			lessons: []models.Lesson{
				{Title: "How Solar Panels Work", Duration: "14m", Position: 1},
				{Title: "Wind Power Fundamentals", Duration: "12m", Position: 2},
				{Title: "Storing Clean Energy", Duration: "16m", Position: 3},
			},
		},
	}

	for _, c := range courses {
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&c.course).Error; err != nil {
				return err
			}
			for i := range c.lessons {
				c.lessons[i].CourseID = c.course.ID
			}
			return tx.Create(&c.lessons).Error
		}); err != nil {
			return err
		}
	}
	log.Printf("🌱 Seeded %d starter courses", len(courses))
	return nil
}
