package models

// RequestStatus is the lifecycle state of a master-key share request.
// Pending is the only non-terminal state; accepted and rejected are final.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// KeyRequest is a directed grant request: FromUser asks ToUser for ToUser's
// master key. Several requests between the same pair may coexist.
type KeyRequest struct {
	ID       string        `json:"id"`
	FromUser string        `json:"from_user"`
	ToUser   string        `json:"to_user"`
	Status   RequestStatus `json:"status"`
}

// SharedKey is one row of the requester's outgoing view. MasterKey is nil
// unless the owner accepted the request; a pending or rejected row never
// carries the real key.
type SharedKey struct {
	OwnerUserName string        `json:"owner_username"`
	MasterKey     *string       `json:"master_key"`
	Status        RequestStatus `json:"status"`
}
