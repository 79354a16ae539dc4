package db

import (
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/types"
  "github.com/yungbote/lecturebridge-backend/internal/utils"
)

var demoSectionTexts = []string{
  "An algorithm is a step-by-step procedure for solving a problem or accomplishing a task. It consists of a finite set of well-defined instructions that can be executed in a specific order to achieve a desired result.",
  "Running time analysis helps us understand how the execution time of an algorithm grows as the input size increases. Big-O notation provides an upper bound on the growth rate of an algorithm's time complexity.",
  "Common time complexities include O(1) for constant time, O(log n) for logarithmic time, O(n) for linear time, O(n log n) for linearithmic time, and O(n²) for quadratic time.",
  "When analyzing algorithms, we typically focus on the worst-case scenario to ensure our algorithm performs acceptably even under the most challenging conditions.",
}

// SeedDemoData inserts a demo student, teacher, course, enrollment and a
// four-section lecture when SEED_DEMO_DATA is set and no users exist yet.
func (s *PostgresService) SeedDemoData() error {
  if !utils.GetEnvAsBool("SEED_DEMO_DATA", false, s.log) {
    return nil
  }

  var count int64
  if err := s.db.Model(&types.User{}).Count(&count).Error; err != nil {
    return fmt.Errorf("Failed to count users before seeding: %w", err)
  }
  if count > 0 {
    s.log.Info("Demo data already present, skipping seed")
    return nil
  }

  s.log.Info("Seeding demo data...")
  return s.db.Transaction(func(tx *gorm.DB) error {
    student := &types.User{ID: uuid.New(), Name: "Alice", Role: types.UserRoleStudent}
    teacher := &types.User{ID: uuid.New(), Name: "Prof. Smith", Role: types.UserRoleTeacher}
    if err := tx.Create([]*types.User{student, teacher}).Error; err != nil {
      return err
    }

    course := &types.Course{ID: uuid.New(), Name: "CIS 101", TeacherID: teacher.ID}
    if err := tx.Create(course).Error; err != nil {
      return err
    }
    enrollment := &types.Enrollment{UserID: student.ID, CourseID: course.ID}
    if err := tx.Create(enrollment).Error; err != nil {
      return err
    }

    baseID := uuid.New()
    lecture := &types.Lecture{
      ID:            types.LectureVersionID(baseID, 1),
      BaseLectureID: baseID,
      Version:       1,
      IsCurrent:     true,
      Title:         "Intro to Algorithms",
      TeacherID:     teacher.ID,
      CourseID:      course.ID,
    }
    for i, text := range demoSectionTexts {
      lecture.Sections = append(lecture.Sections, &types.Section{
        LectureID: lecture.ID,
        ID:        uuid.New(),
        Order:     i + 1,
        Text:      text,
      })
    }
    if err := tx.Create(lecture).Error; err != nil {
      return err
    }

    s.log.Info("Demo data seeded",
      "student_id", student.ID,
      "teacher_id", teacher.ID,
      "lecture_id", lecture.ID)
    return nil
  })
}
