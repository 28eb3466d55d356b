package localdb

import (
	"fmt"
	"time"
)

// PrintRecord は1回の印刷ジョブの記録。
type PrintRecord struct {
	ID        string
	Device    string
	Algorithm string
	Width     int
	Height    int
	Bytes     int
	Duration  time.Duration
	DryRun    bool
	PrintedAt time.Time
}

// RecordPrint は印刷ジョブを履歴に追加する。
func RecordPrint(rec PrintRecord) error {
	if DBClient == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := DBClient.Exec(`INSERT INTO print_history
		(id, device, algorithm, width, height, bytes, duration_ms, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Device, rec.Algorithm, rec.Width, rec.Height,
		rec.Bytes, rec.Duration.Milliseconds(), rec.DryRun)
	if err != nil {
		return fmt.Errorf("failed to record print: %w", err)
	}
	return nil
}

// RecentPrints は新しい順に最大 limit 件の履歴を返す。
func RecentPrints(limit int) ([]PrintRecord, error) {
	if DBClient == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := DBClient.Query(`SELECT id, device, algorithm, width, height,
		bytes, duration_ms, dry_run, printed_at
		FROM print_history ORDER BY printed_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query print history: %w", err)
	}
	defer rows.Close()

	var records []PrintRecord
	for rows.Next() {
		var rec PrintRecord
		var durationMs int64
		if err := rows.Scan(&rec.ID, &rec.Device, &rec.Algorithm, &rec.Width,
			&rec.Height, &rec.Bytes, &durationMs, &rec.DryRun, &rec.PrintedAt); err != nil {
			return nil, fmt.Errorf("failed to scan print record: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
