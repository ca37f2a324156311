package repositories

import (
	"github.com/yigit/programhub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	CourseRepository      *CourseRepository
	FellowshipRepository  *FellowshipRepository
	DiplomaRepository     *DiplomaRepository
	ScholarshipRepository *ScholarshipRepository
	ApplicationRepository *ApplicationRepository
	InterestRepository    *InterestRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(database),
		CourseRepository:      NewCourseRepository(database),
		FellowshipRepository:  NewFellowshipRepository(database),
		DiplomaRepository:     NewDiplomaRepository(database),
		ScholarshipRepository: NewScholarshipRepository(database),
		ApplicationRepository: NewApplicationRepository(database),
		InterestRepository:    NewInterestRepository(database),
	}
}
