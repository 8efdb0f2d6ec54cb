package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UndoSlots keeps one serialized removed entry per log kind.
type UndoSlots struct {
	DB *sql.DB
}

func (u UndoSlots) Save(kind string, payload []byte) error {
	_, err := u.DB.Exec(`
INSERT INTO undo_slots(kind, payload_json, removed_at) VALUES(?, ?, ?)
ON CONFLICT(kind) DO UPDATE SET payload_json = excluded.payload_json, removed_at = excluded.removed_at`,
		kind, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save undo slot %s: %w", kind, err)
	}
	return nil
}

func (u UndoSlots) Load(kind string) ([]byte, bool, error) {
	var payload string
	err := u.DB.QueryRow(`SELECT payload_json FROM undo_slots WHERE kind = ?`, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load undo slot %s: %w", kind, err)
	}
	return []byte(payload), true, nil
}

func (u UndoSlots) Clear(kind string) error {
	if _, err := u.DB.Exec(`DELETE FROM undo_slots WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("clear undo slot %s: %w", kind, err)
	}
	return nil
}
