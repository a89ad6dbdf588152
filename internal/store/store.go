// Package store persists design runs, their probes and specificity
// annotations in SQLite through gorm.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"probekit/internal/blast"
	"probekit/internal/design"
	"probekit/internal/errors"
	"probekit/internal/specificity"
)

// Store wraps a gorm handle.
type Store struct {
	db *gorm.DB
}

func dbError(err error, op string) error {
	return errors.New(fmt.Errorf("%s: %w", op, err)).
		Component("store").
		Category(errors.CategoryDatabase).
		Build()
}

// Open connects to the SQLite database at dsn (":memory:" for an
// in-process database) and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, dbError(err, "open")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, dbError(err, "open")
	}
	// one connection: every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&DesignRun{}, &ProbeRow{}, &AnnotationRow{}); err != nil {
		sqlDB.Close()
		return nil, dbError(err, "migrate")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Target describes the scanned sequence of a run.
type Target struct {
	Name   string
	Length int
}

// SaveRun stores a run and its probes in one transaction and returns the
// new run id.
func (s *Store) SaveRun(ctx context.Context, target Target, params design.Params, probes []design.Probe) (string, error) {
	pj, err := json.Marshal(params)
	if err != nil {
		return "", dbError(err, "encode params")
	}
	run := DesignRun{TargetName: target.Name, TargetLength: target.Length, Params: string(pj), ProbeCount: len(probes)}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(probes) == 0 {
			return nil
		}
		rows := lo.Map(probes, func(p design.Probe, _ int) ProbeRow {
			return ProbeRow{
				RunID:          run.ID,
				ProbeID:        p.ID,
				Sequence:       p.Sequence,
				SourceFragment: p.SourceFragment,
				Start:          p.Start,
				End:            p.End,
				GC:             p.GC,
				Tm:             p.Tm,
				Complexity:     p.Complexity,
			}
		})
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return "", dbError(err, "save run")
	}
	return run.ID, nil
}

// SaveAnnotations replaces the annotations of a run.
func (s *Store) SaveAnnotations(ctx context.Context, runID string, ann specificity.Annotations) error {
	rows := make([]AnnotationRow, 0, len(ann))
	for id, a := range ann {
		hj, err := json.Marshal(a.Hits)
		if err != nil {
			return dbError(err, "encode hits")
		}
		rows = append(rows, AnnotationRow{RunID: runID, ProbeID: id, Tier: string(a.Tier), HitCount: a.HitCount, Hits: string(hj)})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&DesignRun{}).Where("id = ?", runID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("run %s: %w", runID, gorm.ErrRecordNotFound)
		}
		if err := tx.Where("run_id = ?", runID).Delete(&AnnotationRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return dbError(err, "save annotations")
	}
	return nil
}

// Run is a loaded design run with annotations joined onto its probes.
type Run struct {
	DesignRun
	Params design.Params
	Probes []specificity.AnnotatedProbe
}

// LoadRun reads a run, its probes in id order, and their annotations.
// Probes without a stored annotation are unchecked.
func (s *Store) LoadRun(ctx context.Context, runID string) (*Run, error) {
	db := s.db.WithContext(ctx)

	var run DesignRun
	if err := db.First(&run, "id = ?", runID).Error; err != nil {
		return nil, dbError(err, "load run")
	}
	var params design.Params
	if err := json.Unmarshal([]byte(run.Params), &params); err != nil {
		return nil, dbError(err, "decode params")
	}

	var prows []ProbeRow
	if err := db.Where("run_id = ?", runID).Order("probe_id").Find(&prows).Error; err != nil {
		return nil, dbError(err, "load probes")
	}
	var arows []AnnotationRow
	if err := db.Where("run_id = ?", runID).Find(&arows).Error; err != nil {
		return nil, dbError(err, "load annotations")
	}

	ann := make(specificity.Annotations, len(arows))
	for _, a := range arows {
		var hits []blast.Hit
		if a.Hits != "" {
			if err := json.Unmarshal([]byte(a.Hits), &hits); err != nil {
				return nil, dbError(err, "decode hits")
			}
		}
		ann[a.ProbeID] = specificity.Annotation{Tier: specificity.Tier(a.Tier), Hits: hits, HitCount: a.HitCount}
	}

	probes := lo.Map(prows, func(r ProbeRow, _ int) design.Probe {
		return design.Probe{
			ID:             r.ProbeID,
			Sequence:       r.Sequence,
			SourceFragment: r.SourceFragment,
			Start:          r.Start,
			End:            r.End,
			GC:             r.GC,
			Tm:             r.Tm,
			Complexity:     r.Complexity,
		}
	})
	return &Run{DesignRun: run, Params: params, Probes: specificity.Join(probes, ann)}, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]DesignRun, error) {
	var runs []DesignRun
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, dbError(err, "list runs")
	}
	return runs, nil
}
