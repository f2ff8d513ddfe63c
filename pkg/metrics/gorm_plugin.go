package metrics

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const gormStartKey = "metrics:start"

type DbOperation string

const (
	DbOpCreate DbOperation = "create"
	DbOpQuery  DbOperation = "query"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
	DbOpRow    DbOperation = "row"
	DbOpRaw    DbOperation = "raw"
)

// GormPlugin снимает длительность и ошибки всех запросов GORM
// Подключается через db.Use(metrics.NewGormPlugin(service))
type GormPlugin struct {
	service string
}

func NewGormPlugin(service string) *GormPlugin {
	return &GormPlugin{service: service}
}

func (p *GormPlugin) Name() string {
	return "metrics"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		op     DbOperation
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{DbOpCreate, cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{DbOpQuery, cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{DbOpUpdate, cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{DbOpDelete, cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{DbOpRow, cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{DbOpRaw, cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		if err := h.before("metrics:before_"+string(h.op), p.before); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+string(h.op), p.after(h.op)); err != nil {
			return err
		}
	}

	return nil
}

func (p *GormPlugin) before(db *gorm.DB) {
	db.InstanceSet(gormStartKey, time.Now())
}

func (p *GormPlugin) after(op DbOperation) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if value, ok := db.InstanceGet(gormStartKey); ok {
			if start, ok := value.(time.Time); ok {
				table := db.Statement.Table
				if table == "" {
					table = "unknown"
				}
				DbQueryDuration.WithLabelValues(p.service, string(op), table).Observe(time.Since(start).Seconds())
			}
		}

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			RecordDbError(p.service, op)
		}
	}
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}
