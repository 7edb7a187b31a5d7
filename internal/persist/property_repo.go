package persist

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/property"
)

// PropertyRepo stores the base property values of named livings. Properties
// are keyed by their stable name so the enum order can change.
type PropertyRepo struct {
	db  Conn
	log *zap.Logger
}

func NewPropertyRepo(db Conn, log *zap.Logger) *PropertyRepo {
	return &PropertyRepo{db: db, log: log}
}

// LoadBases returns the stored bases of key. Rows naming an unknown
// property are skipped with a warning.
func (r *PropertyRepo) LoadBases(ctx context.Context, key string) (map[property.Property]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT property, value FROM property_bases WHERE living_key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("query property bases: %w", err)
	}
	defer rows.Close()

	bases := make(map[property.Property]int)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan property base: %w", err)
		}
		p, ok := property.ParseProperty(name)
		if !ok {
			r.log.Warn("unknown stored property", zap.String("living", key), zap.String("property", name))
			continue
		}
		bases[p] = int(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property bases: %w", err)
	}
	return bases, nil
}

// SaveBases replaces every stored base of key in one transaction.
func (r *PropertyRepo) SaveBases(ctx context.Context, key string, bases map[property.Property]int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save bases begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM property_bases WHERE living_key = $1`, key); err != nil {
		return fmt.Errorf("delete property bases: %w", err)
	}

	props := make([]property.Property, 0, len(bases))
	for p := range bases {
		props = append(props, p)
	}
	slices.Sort(props)
	for _, p := range props {
		if _, err := tx.Exec(ctx,
			`INSERT INTO property_bases (living_key, property, value) VALUES ($1, $2, $3)`,
			key, p.String(), int64(bases[p]),
		); err != nil {
			return fmt.Errorf("insert property base %s: %w", p, err)
		}
	}
	return tx.Commit(ctx)
}
