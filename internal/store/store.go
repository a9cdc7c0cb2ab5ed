package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"campus-laundry-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Machines
	ListMachines(ctx context.Context) ([]model.Machine, error)
	MachineByDisplayNumber(ctx context.Context, number int) (model.Machine, error)
	SeedMachines(ctx context.Context, machines []model.Machine) ([]model.Machine, error)

	// Users
	UserByStudentID(ctx context.Context, studentID string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)

	// Reservations
	CreateReservation(ctx context.Context, userID, machineID int64, start, end time.Time) (model.Reservation, error)
	ListReservations(ctx context.Context) ([]model.Reservation, error)
	ActiveReservations(ctx context.Context) ([]model.Reservation, error)
	ConfirmReservation(ctx context.Context, id int64) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id, requesterID int64) (model.Reservation, error)
	CleanupInvalidReservations(ctx context.Context) ([]model.Reservation, error)

	// Lost and found
	CreateLostItem(ctx context.Context, item model.LostItem) (model.LostItem, error)
	ListLostItems(ctx context.Context, status string, limit, offset int) ([]model.LostItem, error)
	LostItemByID(ctx context.Context, id int64) (model.LostItem, error)
	UpdateLostItemStatus(ctx context.Context, id, reporterID int64, status string) (model.LostItem, error)
	DeleteLostItem(ctx context.Context, id, reporterID int64) (model.LostItem, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// DefaultMachines is the administrative seed catalog: eight machines,
// two per location, numbered 1..8.
func DefaultMachines() []model.Machine {
	locations := []string{"Basement", "Basement", "Dorm A", "Dorm A", "Dorm B", "Dorm B", "Community Center", "Community Center"}
	machines := make([]model.Machine, len(locations))
	for i, loc := range locations {
		machines[i] = model.Machine{DisplayNumber: i + 1, Location: loc}
	}
	return machines
}

func (s *gormStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Order("display_number").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

func (s *gormStore) MachineByDisplayNumber(ctx context.Context, number int) (model.Machine, error) {
	var machine model.Machine
	err := s.db.WithContext(ctx).Where("display_number = ?", number).First(&machine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Machine{}, ErrMachineNotFound
	}
	return machine, err
}

// SeedMachines replaces the machine catalog wholesale. Reservations keep
// referencing machine ids, so reseeding is only meant for initial setup.
func (s *gormStore) SeedMachines(ctx context.Context, machines []model.Machine) ([]model.Machine, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Machine{}).Error; err != nil {
			return err
		}
		return tx.Create(&machines).Error
	})
	if err != nil {
		return nil, err
	}
	return s.ListMachines(ctx)
}

func (s *gormStore) UserByStudentID(ctx context.Context, studentID string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *gormStore) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("student_id = ?", user.StudentID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateStudentID
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
