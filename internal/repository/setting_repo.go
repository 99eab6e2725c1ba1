package repository

import (
	"errors"

	"go-pos-inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get() (*model.Setting, error)
	Save(setting *model.Setting) error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

// Get returns the stored settings, or the defaults when nothing was saved yet
func (r *settingRepo) Get() (*model.Setting, error) {
	var setting model.Setting
	err := r.db.Where(&model.Setting{Key: model.SettingsKey}).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DefaultSetting(), nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) Save(setting *model.Setting) error {
	setting.Key = model.SettingsKey
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(setting).Error
}
