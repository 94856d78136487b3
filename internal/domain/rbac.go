package domain

// EnforceRequest is the question asked of the RBAC layer: may this user,
// inside this school, perform action on resource.
type EnforceRequest struct {
	UserID   string
	SchoolID string
	Resource string
	Action   string
}
