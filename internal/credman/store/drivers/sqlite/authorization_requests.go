package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sunfall-labs/credman/internal/credman/domain"
	"github.com/sunfall-labs/credman/pkg/idx"
)

type authorizationRequestsRepo struct {
	db dbtx
}

const authorizationRequestColumns = `id, code_verifier, state, authorization_code, status, created_at, updated_at`

func (r *authorizationRequestsRepo) CreateAuthorizationRequest(
	ctx context.Context,
	req domain.AuthorizationRequest,
) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO oauth2_authorization_requests
			(id, code_verifier, state, authorization_code, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID.String(),
		req.CodeVerifier,
		req.State,
		mapOptionalString(req.AuthorizationCode),
		string(req.Status),
		req.CreatedAt,
		mapOptionalTime(req.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *authorizationRequestsRepo) GetAuthorizationRequestByState(
	ctx context.Context,
	state string,
) (domain.AuthorizationRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+authorizationRequestColumns+`
		FROM oauth2_authorization_requests
		WHERE state = ?`,
		state,
	)
	return scanAuthorizationRequest(row)
}

func (r *authorizationRequestsRepo) AcknowledgeAuthorizationRequest(
	ctx context.Context,
	state, code string,
	now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE oauth2_authorization_requests
		SET authorization_code = ?, status = ?, updated_at = ?
		WHERE state = ? AND status = ?`,
		code,
		string(domain.AuthorizationRequestAcknowledged),
		now,
		state,
		string(domain.AuthorizationRequestPending),
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *authorizationRequestsRepo) LatestAcknowledgedAuthorizationRequest(
	ctx context.Context,
) (domain.AuthorizationRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+authorizationRequestColumns+`
		FROM oauth2_authorization_requests
		WHERE status = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`,
		string(domain.AuthorizationRequestAcknowledged),
	)
	return scanAuthorizationRequest(row)
}

func scanAuthorizationRequest(row *sql.Row) (domain.AuthorizationRequest, error) {
	var (
		id        string
		code      sql.NullString
		status    string
		updatedAt sql.NullTime
		req       domain.AuthorizationRequest
	)

	err := row.Scan(
		&id,
		&req.CodeVerifier,
		&req.State,
		&code,
		&status,
		&req.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.AuthorizationRequest{}, mapNotFound(err)
	}

	req.ID = idx.ID(id)
	req.AuthorizationCode = mapNullStringPtr(code)
	req.Status = domain.AuthorizationRequestStatus(status)
	req.UpdatedAt = mapNullTimePtr(updatedAt)
	return req, nil
}
