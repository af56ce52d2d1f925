package user

import (
	"context"

	"tokenfolio/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type userStore struct {
	db *db.DB
}

// New new user store
func New(db *db.DB) core.UserStore {
	return &userStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.User{})

		if err := tx.AutoMigrate(core.User{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_users_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *userStore) Find(ctx context.Context, userID string) (*core.User, error) {
	var user core.User

	err := s.db.View().Where("user_id = ?", userID).First(&user).Error
	if store.IsErrNotFound(err) {
		return &core.User{}, nil
	}

	return &user, err
}
