package persist

import (
	"context"
	"fmt"

	"github.com/dolgo/server/internal/combat"
)

type CombatLogRepo struct {
	db Conn
}

func NewCombatLogRepo(db Conn) *CombatLogRepo {
	return &CombatLogRepo{db: db}
}

// WriteBatch atomically writes a batch of combat log entries in a single
// transaction. On error nothing is written and the caller keeps the batch.
func (r *CombatLogRepo) WriteBatch(ctx context.Context, entries []combat.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("combat log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO combat_log (id, at, kind, actor, actor_name, recipient, recipient_name, amount, damage_type, resisted)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			e.ID.String(), e.At, e.Kind, int64(e.Actor), e.ActorName,
			int64(e.Recipient), e.RecipientName, int32(e.Amount), e.DamageType, int32(e.Resisted),
		); err != nil {
			return fmt.Errorf("combat log insert %s: %w", e.ID, err)
		}
	}

	return tx.Commit(ctx)
}
