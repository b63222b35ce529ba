package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loantrack/internal/domain/loan"
)

// cachedLoan is a row in the local cache DB. The loan itself is stored as
// a JSON blob so a patch is always a whole-object replacement, never a
// field-level merge.
type cachedLoan struct {
	View     string    `gorm:"primaryKey;size:16;column:view"`
	LoanID   string    `gorm:"primaryKey;size:64;column:loan_id"`
	Position int       `gorm:"column:position;index:idx_cached_loans_view_pos"`
	Data     []byte    `gorm:"column:data;type:blob"`
	SavedAt  time.Time `gorm:"column:saved_at;autoUpdateTime"`
}

func (cachedLoan) TableName() string { return "cached_loans" }

type GormPersister struct{ db *gorm.DB }

func NewGormPersister(db *gorm.DB) (*GormPersister, error) {
	if err := db.AutoMigrate(&cachedLoan{}); err != nil {
		return nil, err
	}
	return &GormPersister{db: db}, nil
}

func (p *GormPersister) ReplaceView(ctx context.Context, v View, loans []*loan.Loan) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("view = ?", string(v)).Delete(&cachedLoan{}).Error; err != nil {
			return err
		}
		for i, l := range loans {
			row, err := toRow(v, i, l)
			if err != nil {
				return err
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *GormPersister) SaveLoan(ctx context.Context, v View, position int, l *loan.Loan) error {
	row, err := toRow(v, position, l)
	if err != nil {
		return err
	}
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

func (p *GormPersister) LoadView(ctx context.Context, v View) ([]*loan.Loan, error) {
	var rows []cachedLoan
	err := p.db.WithContext(ctx).
		Where("view = ?", string(v)).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*loan.Loan, 0, len(rows))
	for _, r := range rows {
		var l loan.Loan
		if err := json.Unmarshal(r.Data, &l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, nil
}

func toRow(v View, position int, l *loan.Loan) (*cachedLoan, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return &cachedLoan{
		View:     string(v),
		LoanID:   l.ID,
		Position: position,
		Data:     data,
	}, nil
}

var _ Persister = (*GormPersister)(nil)
