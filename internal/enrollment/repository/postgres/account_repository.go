package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
)

const accountColumns = `id, email, password_hash, kind, verified, approval,
		refresh_token, verification_token, reset_token, reset_expiry, created_at, updated_at`

type AccountRepository struct {
	db PgxIface
}

func NewAccountRepository(db PgxIface) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1 LIMIT 1`, accountColumns)

	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 LIMIT 1`, accountColumns)

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE refresh_token = $1 LIMIT 1`, accountColumns)

	return r.scanAccount(r.db.QueryRow(ctx, query, token))
}

func (r *AccountRepository) GetByResetToken(ctx context.Context, token string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE reset_token = $1 LIMIT 1`, accountColumns)

	return r.scanAccount(r.db.QueryRow(ctx, query, token))
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO accounts (id, email, password_hash, kind, verified, approval, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, account.ID, account.Email, account.PasswordHash, account.Kind, account.Verified,
		account.Approval, account.CreatedAt, account.UpdatedAt)

	return err
}

func (r *AccountRepository) SetApproval(ctx context.Context, accountID string, state domain.ApprovalState) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET approval = $2, updated_at = now() WHERE id = $1
	`, accountID, state)

	return err
}

func (r *AccountRepository) SetRefreshToken(ctx context.Context, accountID string, token *string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET refresh_token = $2, updated_at = now() WHERE id = $1
	`, accountID, token)

	return err
}

// SwapRefreshToken is the compare-and-set behind rotation on redeem: the new
// value lands only if the presented one is still current.
func (r *AccountRepository) SwapRefreshToken(ctx context.Context, accountID, current, next string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2
	`, accountID, current, next)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AccountRepository) SetVerificationToken(ctx context.Context, accountID, token string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET verification_token = $2, updated_at = now() WHERE id = $1
	`, accountID, token)

	return err
}

func (r *AccountRepository) ConsumeVerificationToken(ctx context.Context, token string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET verified = TRUE, verification_token = NULL, updated_at = now()
		WHERE verification_token = $1 AND verified = FALSE
	`, token)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AccountRepository) SetResetToken(ctx context.Context, accountID, token string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET reset_token = $2, reset_expiry = $3, updated_at = now() WHERE id = $1
	`, accountID, token, expiry)

	return err
}

// ConsumeResetToken clears the token and expiry atomically with the
// credential update, guarded by token equality and expiry, so the token can
// never be replayed.
func (r *AccountRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string,
	now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $2, reset_token = NULL, reset_expiry = NULL, updated_at = now()
		WHERE reset_token = $1 AND reset_expiry > $3
	`, token, passwordHash, now)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Kind,
		&account.Verified, &account.Approval, &account.RefreshToken, &account.VerificationToken,
		&account.ResetToken, &account.ResetExpiry, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}
