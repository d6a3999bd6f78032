package dictionary

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japaniel/jpdeck/pkg/db"
)

// Save replaces the persisted pitch table with the contents of d in a
// single transaction.
func Save(ctx context.Context, conn *sql.DB, d *Dictionary) error {
	accents := d.Accents()
	rows := make([]db.PitchAccent, len(accents))
	for i, a := range accents {
		rows[i] = db.PitchAccent{Expression: a.Expression, Reading: a.Reading, Position: a.Position}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pitch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()
	if err := db.ReplacePitchAccents(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads the persisted pitch table. An empty table yields an empty
// dictionary, not an error.
func Load(ctx context.Context, conn db.DBExecutor) (*Dictionary, error) {
	rows, err := db.LoadPitchAccents(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("load pitch accents: %w", err)
	}
	d := New()
	for _, r := range rows {
		d.Set(r.Expression, r.Reading, r.Position)
	}
	return d, nil
}

// LoadOrBuild returns the persisted dictionary, building and saving it from
// the bank files in bankDir when the table is empty.
func LoadOrBuild(ctx context.Context, conn *sql.DB, bankDir string) (*Dictionary, error) {
	n, err := db.CountPitchAccents(ctx, conn)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return Load(ctx, conn)
	}
	entries, err := LoadBankDir(bankDir)
	if err != nil {
		return nil, err
	}
	d := BuildFromBank(entries)
	if err := Save(ctx, conn, d); err != nil {
		return nil, err
	}
	return d, nil
}
