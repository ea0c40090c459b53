package database

import (
	"context"
	"database/sql"

	"github.com/premiads/premiads/internal/apierror"
	"github.com/premiads/premiads/model"
	"github.com/shopspring/decimal"
)

// GetBalanceByUser returns the participant's accumulated balance. A user with
// no approved submissions yet reads as a zero balance rather than an error.
func (d Datasource) GetBalanceByUser(ctx context.Context, userID string) (*model.ParticipantBalance, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, rifas, cashback, updated_at
		FROM premiads.balances
		WHERE user_id = $1
	`, userID)

	balance := &model.ParticipantBalance{}
	err := row.Scan(&balance.UserID, &balance.Rifas, &balance.Cashback, &balance.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return &model.ParticipantBalance{UserID: userID, Rifas: 0, Cashback: decimal.NewFromInt(0)}, nil
		}
		return nil, apierror.NewAPIError(apierror.ErrStoreUnavailable, "Failed to retrieve balance", err)
	}

	return balance, nil
}
