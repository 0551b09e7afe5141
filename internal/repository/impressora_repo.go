package repository

import (
	"context"

	"printmonitor/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ImpressoraRepository interface {
	Create(ctx context.Context, i *model.Impressora) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Impressora, error)
	List(ctx context.Context) ([]model.Impressora, error)
	ListActive(ctx context.Context) ([]model.Impressora, error)
	Update(ctx context.Context, i *model.Impressora) error
	UpdateDesconto(ctx context.Context, id uuid.UUID, desconto decimal.Decimal) error
	// ActiveIPInUse reports whether another active printer already uses ip.
	ActiveIPInUse(ctx context.Context, ip string, exclude *uuid.UUID) (bool, error)
	// Replace deactivates antigaID, inserts nova and records the reason in a
	// single transaction.
	Replace(ctx context.Context, antigaID uuid.UUID, nova *model.Impressora, motivo string) (*model.SubstituicaoImpressora, error)
}

type impressoraRepo struct{ db *gorm.DB }

func NewImpressoraRepository(db *gorm.DB) ImpressoraRepository { return &impressoraRepo{db: db} }

func (r *impressoraRepo) Create(ctx context.Context, i *model.Impressora) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *impressoraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Impressora, error) {
	var i model.Impressora
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *impressoraRepo) List(ctx context.Context) ([]model.Impressora, error) {
	var impressoras []model.Impressora
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&impressoras).Error
	return impressoras, err
}

func (r *impressoraRepo) ListActive(ctx context.Context) ([]model.Impressora, error) {
	var impressoras []model.Impressora
	err := r.db.WithContext(ctx).Where("status = ?", model.StatusAtiva).Order("nome ASC").Find(&impressoras).Error
	return impressoras, err
}

func (r *impressoraRepo) Update(ctx context.Context, i *model.Impressora) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *impressoraRepo) UpdateDesconto(ctx context.Context, id uuid.UUID, desconto decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Impressora{}).Where("id = ?", id).Update("desconto_borrao", desconto)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *impressoraRepo) ActiveIPInUse(ctx context.Context, ip string, exclude *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Impressora{}).Where("ip = ? AND status = ?", ip, model.StatusAtiva)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *impressoraRepo) Replace(ctx context.Context, antigaID uuid.UUID, nova *model.Impressora, motivo string) (*model.SubstituicaoImpressora, error) {
	var sub *model.SubstituicaoImpressora
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Impressora{}).
			Where("id = ? AND status = ?", antigaID, model.StatusAtiva).
			Update("status", model.StatusInativa)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(nova).Error; err != nil {
			return err
		}
		sub = &model.SubstituicaoImpressora{
			ImpressoraAntigaID: antigaID,
			ImpressoraNovaID:   nova.ID,
			Motivo:             motivo,
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}
