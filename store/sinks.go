package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"showtime/api/model"
	"showtime/api/tools"
)

// DbSink persists the snapshot as one row per campaign.
type DbSink struct {
	db       *gorm.DB
	campaign string
}

func NewDbSink(db *gorm.DB, campaign string) *DbSink {
	return &DbSink{db: db, campaign: campaign}
}

func (d *DbSink) Load(ctx context.Context) (Snapshot, bool, error) {
	var row model.GameSnapshot
	err := d.db.WithContext(ctx).Where("campaign = ?", d.campaign).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot row: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(row.Payload, &snap); err != nil {
		return nil, false, fmt.Errorf("decode snapshot payload: %w", err)
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, true, nil
}

func (d *DbSink) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	db := d.db.WithContext(ctx)
	var row model.GameSnapshot
	err = db.Where("campaign = ?", d.campaign).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = model.GameSnapshot{
			Campaign:   d.campaign,
			Payload:    payload,
			Rev:        1,
			UpdateTime: tools.FromTime(time.Now()),
		}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("query snapshot row: %w", err)
	}
	updates := map[string]interface{}{
		"payload":     payload,
		"rev":         row.Rev + 1,
		"update_time": tools.FromTime(time.Now()),
	}
	if err := db.Model(&model.GameSnapshot{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update snapshot row: %w", err)
	}
	return nil
}

// ErrQuotaExceeded mirrors the browser's localStorage quota failure: the
// fallback slot refuses payloads over its configured size.
var ErrQuotaExceeded = errors.New("local cache quota exceeded")

// FileSink is the local fallback slot: a single JSON file holding the last
// snapshot that made it to disk.
type FileSink struct {
	path  string
	quota int64
}

func NewFileSink(path string, quota int64) *FileSink {
	return &FileSink{path: path, quota: quota}
}

func (f *FileSink) Load() (Snapshot, bool, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("decode local cache: %w", err)
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, true, nil
}

func (f *FileSink) Save(snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if f.quota > 0 && int64(len(raw)) > f.quota {
		return fmt.Errorf("%w: %d bytes over %d", ErrQuotaExceeded, int64(len(raw))-f.quota, f.quota)
	}
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
