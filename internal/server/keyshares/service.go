// Package keyshares implements the master-key sharing workflow: a request
// moves from pending to accepted or rejected, and the key value itself is
// disclosed to the requester only after acceptance.
package keyshares

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/accounts"
	keyrequestsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/keyrequests"
)

type Service struct {
	requests keyrequestsrepo.Repository
	accounts accountsrepo.Repository
}

func NewService(requests keyrequestsrepo.Repository, accounts accountsrepo.Repository) *Service {
	return &Service{requests: requests, accounts: accounts}
}

// SendRequest records a pending request from fromUser for toUser's master
// key. Both usernames must belong to existing accounts; a missing one yields
// false rather than an error. Nothing stops repeated requests between the
// same pair.
func (s *Service) SendRequest(ctx context.Context, fromUser, toUser string) (bool, error) {

	for _, username := range []string{toUser, fromUser} {
		exists, err := s.accounts.Exists(ctx, username)
		if err != nil {
			return false, fmt.Errorf("error checking account: %w", err)
		}
		if !exists {
			return false, nil
		}
	}

	request := &models.KeyRequest{FromUser: fromUser, ToUser: toUser}

	if _, err := s.requests.Create(ctx, request); err != nil {
		// Foreign keys re-check existence atomically; an account that
		// vanished between the check and the insert is reported the same way.
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error creating request: %w", err)
	}

	return true, nil
}

// ListIncoming returns every request addressed to username, in storage order.
func (s *Service) ListIncoming(ctx context.Context, username string) ([]*models.KeyRequest, error) {

	requests, err := s.requests.ListIncoming(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}

	return requests, nil
}

// Respond moves a pending request to accepted or rejected. Only the request's
// addressee can resolve it, and a terminal request never changes again; any
// call that does not match a pending request owned by actingUser is a silent
// no-op, which makes Respond idempotent.
func (s *Service) Respond(ctx context.Context, actingUser, requestID string, accept bool) error {

	status := models.StatusRejected
	if accept {
		status = models.StatusAccepted
	}

	if _, err := s.requests.UpdateStatus(ctx, requestID, actingUser, status); err != nil {
		return fmt.Errorf("error updating request: %w", err)
	}

	return nil
}

// ListShared returns username's outgoing requests joined to the owners'
// accounts, with the visibility rule applied: the master key value appears
// only on accepted rows. Pending and rejected rows carry an explicit nil,
// never the real key and never a placeholder.
func (s *Service) ListShared(ctx context.Context, username string) ([]*models.SharedKey, error) {

	rows, err := s.requests.ListOutgoingWithKeys(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error listing shared keys: %w", err)
	}

	result := make([]*models.SharedKey, 0, len(rows))
	for _, row := range rows {
		shared := &models.SharedKey{
			OwnerUserName: row.OwnerUserName,
			Status:        row.Status,
		}
		if row.Status == models.StatusAccepted {
			key := row.MasterKey
			shared.MasterKey = &key
		}
		result = append(result, shared)
	}

	return result, nil
}
