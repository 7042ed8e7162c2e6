package dbexport

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 200

// Store loads and saves whole tables.
type Store interface {
	Load(ctx context.Context, t Table) (interface{}, error)
	Save(ctx context.Context, t Table, rows interface{}, replace bool) (int, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Load(ctx context.Context, t Table) (interface{}, error) {
	rows := t.New()
	if err := s.db.WithContext(ctx).Table(t.Name).Find(rows).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", t.Name, err)
	}
	return rows, nil
}

// Save upserts rows by primary key. With replace the table is emptied first, in the same
// transaction.
func (s *gormStore) Save(ctx context.Context, t Table, rows interface{}, replace bool) (int, error) {
	n := rowCount(rows)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Exec("DELETE FROM " + t.Name).Error; err != nil {
				return err
			}
		}
		if n == 0 {
			return nil
		}
		return tx.Table(t.Name).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", t.Name, err)
	}
	return n, nil
}

func rowCount(rows interface{}) int {
	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return 0
	}
	return v.Len()
}
