package repository

import (
	"errors"

	"go-boutique-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	SetMany(values map[string]string, deleteKeys ...string) error
	Delete(key string) error
	All() (map[string]string, error)
}

type preferenceRepo struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db}
}

func (r *preferenceRepo) Get(key string) (string, bool, error) {
	var pref model.Preference
	err := r.db.First(&pref, "pref_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pref.Value, true, nil
}

func (r *preferenceRepo) Set(key, value string) error {
	return upsertPreference(r.db, key, value)
}

// SetMany writes and removes keys in a single transaction
func (r *preferenceRepo) SetMany(values map[string]string, deleteKeys ...string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsertPreference(tx, key, value); err != nil {
				return err
			}
		}
		if len(deleteKeys) > 0 {
			if err := tx.Where("pref_key IN ?", deleteKeys).Delete(&model.Preference{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *preferenceRepo) Delete(key string) error {
	return r.db.Where("pref_key = ?", key).Delete(&model.Preference{}).Error
}

func (r *preferenceRepo) All() (map[string]string, error) {
	var prefs []model.Preference
	if err := r.db.Find(&prefs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func upsertPreference(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.Preference{Key: key, Value: value}).Error
}
