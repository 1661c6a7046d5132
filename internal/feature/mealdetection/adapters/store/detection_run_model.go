package store

import (
	"strings"
	"time"

	"meal_backend/internal/feature/mealdetection/domain/entity"
)

// DetectionRunModel is the GORM model for the detection_runs table.
type DetectionRunModel struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Mode             string    `gorm:"size:32;not null"`
	Path             string    `gorm:"size:32;index;not null"`
	Gate             string    `gorm:"size:32"`
	SecondaryCalled  bool      `gorm:"not null"`
	SecondaryOutcome string    `gorm:"size:32"`
	FallbackCalled   bool      `gorm:"not null"`
	ItemCount        int       `gorm:"not null"`
	ItemNames        string    `gorm:"size:1024"`
	ElapsedMS        int64     `gorm:"not null"`
	CreatedAt        time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (DetectionRunModel) TableName() string {
	return "detection_runs"
}

// ToEntity converts the GORM model to a domain entity.
func (m *DetectionRunModel) ToEntity() *entity.DetectionRun {
	var names []string
	if m.ItemNames != "" {
		names = strings.Split(m.ItemNames, ",")
	}
	return &entity.DetectionRun{
		ID:               m.ID,
		Mode:             entity.Mode(m.Mode),
		Path:             entity.DetectionPath(m.Path),
		Gate:             entity.Gate(m.Gate),
		SecondaryCalled:  m.SecondaryCalled,
		SecondaryOutcome: entity.SecondaryOutcome(m.SecondaryOutcome),
		FallbackCalled:   m.FallbackCalled,
		ItemNames:        names,
		Elapsed:          time.Duration(m.ElapsedMS) * time.Millisecond,
		CreatedAt:        m.CreatedAt,
	}
}

// DetectionRunModelFromEntity converts a domain entity to a GORM model.
func DetectionRunModelFromEntity(r *entity.DetectionRun) *DetectionRunModel {
	return &DetectionRunModel{
		ID:               r.ID,
		Mode:             string(r.Mode),
		Path:             string(r.Path),
		Gate:             string(r.Gate),
		SecondaryCalled:  r.SecondaryCalled,
		SecondaryOutcome: string(r.SecondaryOutcome),
		FallbackCalled:   r.FallbackCalled,
		ItemCount:        len(r.ItemNames),
		ItemNames:        strings.Join(r.ItemNames, ","),
		ElapsedMS:        r.Elapsed.Milliseconds(),
		CreatedAt:        r.CreatedAt,
	}
}
