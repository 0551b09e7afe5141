package repository

import (
	"context"
	"strings"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoricoRow is one reading joined with its printer name.
type HistoricoRow struct {
	PrinterID uuid.UUID
	Nome      string
	Data      time.Time
	Paginas   int64
}

type ConsumoRepository interface {
	ListByPrinter(ctx context.Context, printerID uuid.UUID) ([]model.ConsumoImpressora, error)
	// ListSince returns readings ordered by printer then date; zero desde means all.
	ListSince(ctx context.Context, desde time.Time) ([]model.ConsumoImpressora, error)
	ListBetween(ctx context.Context, inicio, fim time.Time) ([]model.ConsumoImpressora, error)
	// Upsert stores the counter for (printer, day), replacing an earlier reading of the same day.
	Upsert(ctx context.Context, c *model.ConsumoImpressora) error
	Search(ctx context.Context, filter dto.HistoricoFilter) ([]HistoricoRow, int64, error)
}

type consumoRepo struct{ db *gorm.DB }

func NewConsumoRepository(db *gorm.DB) ConsumoRepository { return &consumoRepo{db: db} }

func (r *consumoRepo) ListByPrinter(ctx context.Context, printerID uuid.UUID) ([]model.ConsumoImpressora, error) {
	var out []model.ConsumoImpressora
	err := r.db.WithContext(ctx).Where("printer_id = ?", printerID).Order("data ASC").Find(&out).Error
	return out, err
}

func (r *consumoRepo) ListSince(ctx context.Context, desde time.Time) ([]model.ConsumoImpressora, error) {
	q := r.db.WithContext(ctx).Model(&model.ConsumoImpressora{})
	if !desde.IsZero() {
		q = q.Where("data >= ?", desde.Format(time.DateOnly))
	}
	var out []model.ConsumoImpressora
	err := q.Order("printer_id ASC").Order("data ASC").Find(&out).Error
	return out, err
}

func (r *consumoRepo) ListBetween(ctx context.Context, inicio, fim time.Time) ([]model.ConsumoImpressora, error) {
	var out []model.ConsumoImpressora
	err := r.db.WithContext(ctx).
		Where("data >= ? AND data < ?", inicio.Format(time.DateOnly), fim.Format(time.DateOnly)).
		Order("printer_id ASC").Order("data ASC").
		Find(&out).Error
	return out, err
}

func (r *consumoRepo) Upsert(ctx context.Context, c *model.ConsumoImpressora) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "printer_id"}, {Name: "data"}},
		DoUpdates: clause.AssignmentColumns([]string{"paginas"}),
	}).Create(c).Error
}

func (r *consumoRepo) Search(ctx context.Context, filter dto.HistoricoFilter) ([]HistoricoRow, int64, error) {
	q := r.db.WithContext(ctx).
		Table("consumo_impressoras AS c").
		Joins("JOIN printers p ON p.id = c.printer_id")

	if filter.Nome != "" {
		q = q.Where("p.nome ILIKE ?", "%"+escapeLike(filter.Nome)+"%")
	}
	if filter.Data != "" {
		q = q.Where("c.data = ?", filter.Data)
	}
	if filter.Paginas != "" {
		q = q.Where("CAST(c.paginas AS TEXT) LIKE ?", "%"+escapeLike(filter.Paginas)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var rows []HistoricoRow
	err := q.Select("c.printer_id AS printer_id, p.nome AS nome, c.data AS data, c.paginas AS paginas").
		Order("c.data DESC").Order("p.nome ASC").
		Limit(filter.Limit).Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
