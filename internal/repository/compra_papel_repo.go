package repository

import (
	"context"
	"time"

	"printmonitor/internal/model"

	"gorm.io/gorm"
)

type CompraPapelRepository interface {
	Create(ctx context.Context, c *model.CompraPapel) error
	ListBetween(ctx context.Context, inicio, fim time.Time) ([]model.CompraPapel, error)
}

type compraPapelRepo struct{ db *gorm.DB }

func NewCompraPapelRepository(db *gorm.DB) CompraPapelRepository { return &compraPapelRepo{db: db} }

func (r *compraPapelRepo) Create(ctx context.Context, c *model.CompraPapel) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *compraPapelRepo) ListBetween(ctx context.Context, inicio, fim time.Time) ([]model.CompraPapel, error) {
	var out []model.CompraPapel
	err := r.db.WithContext(ctx).
		Where("data >= ? AND data < ?", inicio.Format(time.DateOnly), fim.Format(time.DateOnly)).
		Order("data DESC").Order("created_at DESC").
		Find(&out).Error
	return out, err
}
