package infra

import (
	"fmt"

	"printmonitor/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date (AutoMigrate + idempotent SQL patches).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies the schema patches.
// Integration tests call it directly against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Impressora{},
		&model.ConsumoImpressora{},
		&model.CompraPapel{},
		&model.SubstituicaoImpressora{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express
// (check constraints, expression indexes). Every statement is guarded so
// re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"printers desconto range", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_printers_desconto_borrao') THEN
    ALTER TABLE printers
      ADD CONSTRAINT chk_printers_desconto_borrao CHECK (desconto_borrao BETWEEN 0 AND 100);
  END IF;
END $$`},
		{"printers status domain", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_printers_status') THEN
    ALTER TABLE printers
      ADD CONSTRAINT chk_printers_status CHECK (status IN ('ativa', 'inativa'));
  END IF;
END $$`},
		{"compras_papel positive amounts", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_compras_papel_positivo') THEN
    ALTER TABLE compras_papel
      ADD CONSTRAINT chk_compras_papel_positivo CHECK (quantidade_folhas > 0 AND valor_total > 0);
  END IF;
END $$`},
		// history filter does ILIKE on printer names
		{"printers lower(nome) index",
			`CREATE INDEX IF NOT EXISTS idx_printers_nome_lower ON printers (lower(nome))`},
		{"consumo printer/data lookup",
			`CREATE INDEX IF NOT EXISTS idx_consumo_data_desc ON consumo_impressoras (data DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
