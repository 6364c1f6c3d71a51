// Package keyrequests persists master-key share requests and serves the
// joined views the sharing workflow needs.
package keyrequests

import (
	"context"

	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// OutgoingRow is one raw row of the requester's outgoing view, joined to the
// owner's account. MasterKey is always populated here; the service layer is
// responsible for withholding it until the request is accepted.
type OutgoingRow struct {
	OwnerUserName string
	MasterKey     string
	Status        models.RequestStatus
}

type Repository interface {
	// Create inserts a new request in the pending state and returns it with
	// its assigned ID. A missing from_user or to_user account yields
	// common.ErrorNotFound (foreign keys back the check).
	Create(ctx context.Context, request *models.KeyRequest) (*models.KeyRequest, error)

	// ListIncoming returns every request addressed to the given user, in
	// storage order.
	ListIncoming(ctx context.Context, toUser string) ([]*models.KeyRequest, error)

	// UpdateStatus moves a pending request owned by actingUser to the given
	// terminal status. It reports the number of rows changed; zero means the
	// request is unknown, already terminal, or addressed to someone else.
	UpdateStatus(ctx context.Context, requestID, actingUser string, status models.RequestStatus) (int64, error)

	// ListOutgoingWithKeys returns every request sent by the given user,
	// joined to the owning account's master key.
	ListOutgoingWithKeys(ctx context.Context, fromUser string) ([]*OutgoingRow, error)
}
