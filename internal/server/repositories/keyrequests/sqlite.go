package keyrequests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/dbx"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// SQLiteRepository implements Repository over the embedded database used in
// local mode. Foreign keys must be enabled on the connection for Create to
// reject unknown usernames.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, request *models.KeyRequest) (*models.KeyRequest, error) {

	query :=
		`INSERT INTO key_requests (id, from_user, to_user, status)
		 VALUES (?, ?, ?, ?)
		 `

	request.ID = uuid.New().String()
	request.Status = models.StatusPending

	_, err := r.db.ExecContext(ctx, query,
		request.ID, request.FromUser, request.ToUser, request.Status)

	if err != nil {
		if err := dbx.TranslateError(err); errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return request, nil
}

func (r *SQLiteRepository) ListIncoming(ctx context.Context, toUser string) ([]*models.KeyRequest, error) {
	query :=
		`SELECT id, from_user, to_user, status FROM key_requests
		 WHERE to_user = ?
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, toUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.KeyRequest
	for rows.Next() {
		req := &models.KeyRequest{}
		if err := rows.Scan(&req.ID, &req.FromUser, &req.ToUser, &req.Status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, requestID, actingUser string, status models.RequestStatus) (int64, error) {
	query :=
		`UPDATE key_requests SET status = ?
		 WHERE id = ? AND to_user = ? AND status = 'pending'
		 `

	res, err := r.db.ExecContext(ctx, query, status, requestID, actingUser)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}

func (r *SQLiteRepository) ListOutgoingWithKeys(ctx context.Context, fromUser string) ([]*OutgoingRow, error) {
	query :=
		`SELECT a.username, a.master_key, r.status
		 FROM key_requests r
		 JOIN accounts a ON r.to_user = a.username
		 WHERE r.from_user = ?
		 ORDER BY r.created_at, r.id
		 `

	rows, err := r.db.QueryContext(ctx, query, fromUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*OutgoingRow
	for rows.Next() {
		row := &OutgoingRow{}
		if err := rows.Scan(&row.OwnerUserName, &row.MasterKey, &row.Status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
