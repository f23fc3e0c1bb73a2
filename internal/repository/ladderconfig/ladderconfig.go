package ladderconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liqdesk/spread-revenue/pkg/model"
)

// ConfigRecord is a named order-book draft an analyst saved for an
// instrument, typically a scenario-B candidate they keep editing. Only
// inputs are stored; computed result tables never are.
type ConfigRecord struct {
	ID         int64     `db:"id" json:"id"`
	OwnerID    int64     `db:"owner_id" json:"ownerId"`
	Name       string    `db:"name" json:"name"`
	Instrument string    `db:"instrument" json:"instrument"`
	LevelsJSON []byte    `db:"levels" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Ladder decodes the stored levels.
func (r *ConfigRecord) Ladder() (model.Ladder, error) {
	var ladder model.Ladder
	if err := json.Unmarshal(r.LevelsJSON, &ladder); err != nil {
		return nil, fmt.Errorf("decoding stored ladder %d: %w", r.ID, err)
	}
	return ladder, nil
}

type LadderConfigRepository interface {
	Save(ctx context.Context, ownerID int64, name, instrument string, ladder model.Ladder) (int64, error)
	GetByID(ctx context.Context, id int64) (*ConfigRecord, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]ConfigRecord, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type ladderConfigRepositoryImpl struct {
	db *sqlx.DB
}

func NewLadderConfigRepository(db *sqlx.DB) LadderConfigRepository {
	return &ladderConfigRepositoryImpl{db: db}
}

func (r *ladderConfigRepositoryImpl) Save(ctx context.Context, ownerID int64, name, instrument string, ladder model.Ladder) (int64, error) {
	levels, err := json.Marshal(ladder)
	if err != nil {
		return 0, fmt.Errorf("encoding ladder: %w", err)
	}

	var id int64
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO ladder_configs (owner_id, name, instrument, levels)
         VALUES ($1, $2, $3, $4) RETURNING id`,
		ownerID, name, instrument, levels).Scan(&id)
	return id, err
}

func (r *ladderConfigRepositoryImpl) GetByID(ctx context.Context, id int64) (*ConfigRecord, error) {
	rec := &ConfigRecord{}
	err := r.db.GetContext(ctx, rec,
		`SELECT id, owner_id, name, instrument, levels, created_at
         FROM ladder_configs WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ladderConfigRepositoryImpl) ListByOwner(ctx context.Context, ownerID int64) ([]ConfigRecord, error) {
	var recs []ConfigRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT id, owner_id, name, instrument, levels, created_at
         FROM ladder_configs WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	return recs, err
}

func (r *ladderConfigRepositoryImpl) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM ladder_configs WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("ladder config %d not found", id)
	}
	return nil
}
