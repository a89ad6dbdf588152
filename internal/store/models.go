// internal/store/models.go
package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DesignRun is one persisted design scan.
type DesignRun struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	TargetName   string    `gorm:"size:255" json:"target_name"`
	TargetLength int       `json:"target_length"`
	Params       string    `gorm:"type:text" json:"params"` // design.Params as JSON
	ProbeCount   int       `json:"probe_count"`
}

func (DesignRun) TableName() string { return "design_runs" }

// BeforeCreate assigns a UUID when none was set.
func (r *DesignRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ProbeRow holds the immutable facts of one probe.
type ProbeRow struct {
	ID             uint    `gorm:"primaryKey"`
	RunID          string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_probe_run_probe"`
	ProbeID        int     `gorm:"not null;uniqueIndex:idx_probe_run_probe"`
	Sequence       string  `gorm:"size:255;not null"`
	SourceFragment string  `gorm:"size:255;not null"`
	Start          int     `gorm:"not null"`
	End            int     `gorm:"not null"`
	GC             float64 `gorm:"column:gc_content"`
	Tm             float64
	Complexity     float64
}

func (ProbeRow) TableName() string { return "probes" }

// AnnotationRow holds the specificity annotation of one probe.
type AnnotationRow struct {
	ID       uint   `gorm:"primaryKey"`
	RunID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_annotation_run_probe"`
	ProbeID  int    `gorm:"not null;uniqueIndex:idx_annotation_run_probe"`
	Tier     string `gorm:"size:32;not null"`
	HitCount int
	Hits     string `gorm:"type:text"` // []blast.Hit as JSON
}

func (AnnotationRow) TableName() string { return "probe_annotations" }
