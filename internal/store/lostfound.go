package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campus-laundry-backend/internal/model"
)

func (s *gormStore) CreateLostItem(ctx context.Context, item model.LostItem) (model.LostItem, error) {
	if item.Status == "" {
		item.Status = model.LostItemActive
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.LostItem{}, err
	}
	items, err := s.annotateReporters(ctx, []model.LostItem{item})
	if err != nil {
		return model.LostItem{}, err
	}
	return items[0], nil
}

func (s *gormStore) ListLostItems(ctx context.Context, status string, limit, offset int) ([]model.LostItem, error) {
	query := s.db.WithContext(ctx).Model(&model.LostItem{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var items []model.LostItem
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return s.annotateReporters(ctx, items)
}

func (s *gormStore) LostItemByID(ctx context.Context, id int64) (model.LostItem, error) {
	var item model.LostItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.LostItem{}, ErrLostItemNotFound
	}
	if err != nil {
		return model.LostItem{}, err
	}
	items, err := s.annotateReporters(ctx, []model.LostItem{item})
	if err != nil {
		return model.LostItem{}, err
	}
	return items[0], nil
}

// UpdateLostItemStatus changes an item's status. Only the reporter may do
// so; a mismatch reports not-found.
func (s *gormStore) UpdateLostItemStatus(ctx context.Context, id, reporterID int64, status string) (model.LostItem, error) {
	var item model.LostItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND reporter_id = ?", id, reporterID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLostItemNotFound
		}
		if err != nil {
			return err
		}
		item.Status = status
		return tx.Model(&item).Update("status", status).Error
	})
	if err != nil {
		return model.LostItem{}, err
	}
	return item, nil
}

// DeleteLostItem removes an item. Only the reporter may delete it.
func (s *gormStore) DeleteLostItem(ctx context.Context, id, reporterID int64) (model.LostItem, error) {
	var item model.LostItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND reporter_id = ?", id, reporterID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLostItemNotFound
		}
		if err != nil {
			return err
		}
		return tx.Delete(&model.LostItem{}, id).Error
	})
	if err != nil {
		return model.LostItem{}, err
	}
	return item, nil
}

func (s *gormStore) annotateReporters(ctx context.Context, items []model.LostItem) ([]model.LostItem, error) {
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool)
	for _, item := range items {
		if !seen[item.ReporterID] {
			seen[item.ReporterID] = true
			ids = append(ids, item.ReporterID)
		}
	}

	var users []model.User
	if err := s.db.WithContext(ctx).Find(&users, ids).Error; err != nil {
		return nil, err
	}
	userByID := make(map[int64]model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	for i := range items {
		if u, ok := userByID[items[i].ReporterID]; ok {
			items[i].ReporterName = u.Name
			items[i].ReporterStudentID = u.StudentID
		}
	}
	return items, nil
}
