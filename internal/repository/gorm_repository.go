package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"clubdirectory/internal/model"
)

// GormRepository stores members in a SQL database through GORM. Name and
// rating filters run in SQL; activity matching and ordering reuse Filter so
// every store answers a listing identically.
type GormRepository struct {
	db *gorm.DB
}

var _ MemberRepository = (*GormRepository)(nil)

// NewGormRepository creates a GORM-backed member repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the members table.
func (r *GormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.Member{})
}

// List returns the filtered members ordered by insertion, then sorted when requested.
func (r *GormRepository) List(ctx context.Context, filter Filter) ([]model.Member, error) {
	q := r.db.WithContext(ctx).Model(&model.Member{})
	if filter.Query != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(filter.Query))+"%")
	}
	if filter.Rating != nil {
		q = q.Where("rating = ?", *filter.Rating)
	}
	var members []model.Member
	if err := q.Order("seq").Find(&members).Error; err != nil {
		return nil, err
	}
	return filter.applyPostQuery(members), nil
}

// Exists reports whether a member with id is stored.
func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Member{}).Where("member_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new member.
func (r *GormRepository) Create(ctx context.Context, member *model.Member) error {
	row := member.Clone()
	row.Seq = 0
	return r.db.WithContext(ctx).Create(&row).Error
}

// Update merges patch over the stored member inside a transaction.
func (r *GormRepository) Update(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error) {
	var updated *model.Member
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.Member
		if err := tx.Where("member_id = ?", id).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		patch.ApplyTo(&member)
		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		updated = &member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the earliest inserted member with id.
func (r *GormRepository) Delete(ctx context.Context, id string) (bool, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Where("member_id = ?", id).Order("seq").First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Delete(&model.Member{}, member.Seq).Error; err != nil {
		return false, err
	}
	return true, nil
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
