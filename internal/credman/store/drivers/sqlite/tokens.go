package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sunfall-labs/credman/internal/credman/domain"
	"github.com/sunfall-labs/credman/pkg/cryptox"
	"github.com/sunfall-labs/credman/pkg/idx"
)

// tokensRepo persists the append-only token ledger. Token values are sealed
// (AES-256-GCM) before insert and opened on read, so plaintext credentials
// never reach the database file.
type tokensRepo struct {
	db     dbtx
	sealer *cryptox.Sealer
}

func (r *tokensRepo) AppendToken(ctx context.Context, rec domain.TokenRecord) error {
	sealedAccess, err := r.sealer.SealString(rec.AccessToken)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}

	sealedRefresh, err := r.sealer.SealString(rec.RefreshToken)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO oauth2_tokens (id, access_token, refresh_token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID.String(),
		sealedAccess,
		sealedRefresh,
		mapOptionalTime(rec.ExpiresAt),
		rec.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *tokensRepo) CurrentToken(ctx context.Context) (domain.TokenRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, access_token, refresh_token, expires_at, created_at
		FROM oauth2_tokens
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
	)

	var (
		id            string
		sealedAccess  []byte
		sealedRefresh []byte
		expiresAt     sql.NullTime
		rec           domain.TokenRecord
	)

	err := row.Scan(&id, &sealedAccess, &sealedRefresh, &expiresAt, &rec.CreatedAt)
	if err != nil {
		return domain.TokenRecord{}, mapNotFound(err)
	}

	rec.ID = idx.ID(id)
	rec.ExpiresAt = mapNullTimePtr(expiresAt)

	if rec.AccessToken, err = r.sealer.OpenString(sealedAccess); err != nil {
		return domain.TokenRecord{}, fmt.Errorf("open access token: %w", err)
	}
	if rec.RefreshToken, err = r.sealer.OpenString(sealedRefresh); err != nil {
		return domain.TokenRecord{}, fmt.Errorf("open refresh token: %w", err)
	}

	return rec, nil
}

func (r *tokensRepo) CountTokens(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM oauth2_tokens`).Scan(&count)
	return count, err
}
