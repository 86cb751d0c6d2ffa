package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/beeseek/notify-api/internal/data/pgxutil"
	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
)

// AuditRepo persists SOS delivery attempts in the sos_alert_actions table.
type AuditRepo struct {
	DB *sql.DB
}

// NewAuditRepo constructs an AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{DB: db}
}

// InsertAction stores one audit record. Empty optional text columns are stored as NULL.
func (r *AuditRepo) InsertAction(ctx context.Context, rec *model.AuditRecord) error {
	if r == nil || r.DB == nil {
		return ErrAuditNotConfigured
	}
	if rec == nil || strings.TrimSpace(rec.SOSID) == "" {
		return ErrSOSIDRequired
	}

	payload := rec.ResponseData
	if payload == nil {
		payload = map[string]any{}
	}
	responseJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal response_data: %w", err)
	}

	performedBy := rec.PerformedBy
	if performedBy == "" {
		performedBy = model.DefaultPerformedBy
	}

	const query = `
		INSERT INTO sos_alert_actions (
			id, sos_id, action_type, action_status, target_type,
			target_identifier, target_name, error_message, response_data,
			performed_by, notes, created_at
		)
		VALUES (
			$1, $2, $3, $4, $5,
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9::jsonb,
			$10, NULLIF($11, ''), COALESCE($12, now())
		)`

	var createdAt any
	if !rec.CreatedAt.IsZero() {
		createdAt = rec.CreatedAt
	}

	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.SOSID,
		string(rec.ActionType),
		string(rec.ActionStatus),
		string(rec.TargetType),
		rec.TargetIdentifier,
		rec.TargetName,
		rec.ErrorMessage,
		string(responseJSON),
		performedBy,
		rec.Notes,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert sos_alert_actions: %w", apperrors.MapDBError(err))
	}
	return nil
}

// ListBySOSID returns the audit trail for one alert, oldest first.
func (r *AuditRepo) ListBySOSID(ctx context.Context, sosID string) ([]*model.AuditRecord, error) {
	if r == nil || r.DB == nil {
		return nil, ErrAuditNotConfigured
	}
	if strings.TrimSpace(sosID) == "" {
		return nil, ErrSOSIDRequired
	}

	const query = `
		SELECT
			id::text AS id,
			sos_id,
			action_type,
			action_status,
			target_type,
			COALESCE(target_identifier, '') AS target_identifier,
			COALESCE(target_name, '') AS target_name,
			COALESCE(error_message, '') AS error_message,
			response_data,
			performed_by,
			COALESCE(notes, '') AS notes,
			created_at
		FROM sos_alert_actions
		WHERE sos_id = $1
		ORDER BY created_at ASC, id ASC`

	var out []*model.AuditRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, sosID)
		if err != nil {
			return err
		}
		defer rows.Close()

		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AuditRecord])
		if err != nil {
			return err
		}
		out = make([]*model.AuditRecord, 0, len(collected))
		for i := range collected {
			out = append(out, &collected[i])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sos_alert_actions: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// NoopAuditRepo discards audit records. It is wired when audit storage is disabled.
type NoopAuditRepo struct{}

// InsertAction implements core.AuditRepository.
func (NoopAuditRepo) InsertAction(context.Context, *model.AuditRecord) error { return nil }

// ListBySOSID reports that no audit store is configured.
func (NoopAuditRepo) ListBySOSID(context.Context, string) ([]*model.AuditRecord, error) {
	return nil, apperrors.Unavailable("audit storage is disabled")
}
