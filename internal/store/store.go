package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gremlin-admin/internal/condition"
	"gremlin-admin/internal/models"
	"gremlin-admin/internal/profxml"
)

// DB is the subset of a pgx pool used by ConditionStore. Both
// *pgxpool.Pool and pgxmock pools satisfy it.
type DB interface {
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	// ErrNotFound được trả về khi action chưa có activation condition.
	ErrNotFound = errors.New("activation condition not found")
	// ErrInvalidCondition được trả về khi dữ liệu không thể lưu.
	ErrInvalidCondition = errors.New("invalid activation condition")
)

// ConditionStore keeps the encoded <activation-condition> element of each
// action. Only the XML emitted by condition.Encode is stored.
type ConditionStore struct {
	DB DB
}

// Save encodes ac, dropping invalid children, and upserts it for the
// action. Every save is appended to the history table in the same
// transaction.
func (s *ConditionStore) Save(ctx context.Context, actionID uuid.UUID, ac *condition.ActivationCondition) (err error) {
	if s.DB == nil {
		return errors.New("db pool is nil")
	}
	if _, perr := condition.ParseActivationRule(string(ac.Rule)); perr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCondition, perr)
	}

	node := ac.Encode()
	raw, err := node.Marshal()
	if err != nil {
		return fmt.Errorf("encode activation condition: %w", err)
	}
	slog.Debug("encoded activation condition", "action_id", actionID, "node", node.DebugString())

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				slog.Error("failed to rollback activation condition transaction", "error", rbErr)
			}
			return
		}

		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("commit tx: %w", commitErr)
		}
	}()

	if _, err = tx.Exec(ctx, `
        INSERT INTO gremlin.activation_conditions (action_id, rule, xml, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (action_id) DO UPDATE
        SET rule = EXCLUDED.rule, xml = EXCLUDED.xml, updated_at = now()
    `, actionID, string(ac.Rule), string(raw)); err != nil {
		return fmt.Errorf("upsert activation condition: %w", err)
	}

	if _, err = tx.Exec(ctx, `
        INSERT INTO gremlin.activation_condition_history (action_id, xml)
        VALUES ($1, $2)
    `, actionID, string(raw)); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	slog.Info("saved activation condition",
		"action_id", actionID,
		"rule", ac.Rule,
		"conditions", len(node.Children),
		"dropped", len(ac.Conditions)-len(node.Children),
	)
	return nil
}

// LoadRecord returns the stored row without decoding it.
func (s *ConditionStore) LoadRecord(ctx context.Context, actionID uuid.UUID) (*models.ActivationConditionRecord, error) {
	rec := models.ActivationConditionRecord{ActionID: actionID}
	err := s.DB.QueryRow(ctx, `
        SELECT rule, xml, updated_at
        FROM gremlin.activation_conditions
        WHERE action_id = $1
    `, actionID).Scan(&rec.Rule, &rec.XML, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load activation condition: %w", err)
	}
	return &rec, nil
}

// Load decodes the stored activation condition of an action.
func (s *ConditionStore) Load(ctx context.Context, actionID uuid.UUID) (*condition.ActivationCondition, time.Time, error) {
	rec, err := s.LoadRecord(ctx, actionID)
	if err != nil {
		return nil, time.Time{}, err
	}

	ac, err := condition.Parse([]byte(rec.XML))
	if err != nil {
		if se, ok := profxml.AsSchemaError(err); ok {
			slog.Warn("stored activation condition does not decode",
				"action_id", actionID, "path", se.Path, "attr", se.Attr, "reason", se.Reason)
		}
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	return ac, rec.UpdatedAt, nil
}

func (s *ConditionStore) Delete(ctx context.Context, actionID uuid.UUID) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM gremlin.activation_conditions WHERE action_id = $1`, actionID)
	if err != nil {
		return fmt.Errorf("delete activation condition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	slog.Info("deleted activation condition", "action_id", actionID)
	return nil
}
