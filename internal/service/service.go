package service

import (
	"context"
	"errors"

	"praxis-api/internal/authz"
	"praxis-api/internal/domain"
)

var (
	ErrUnauthorized     = errors.New("user not authorized for this action")
	ErrDocumentNotFound = errors.New("document not found")
	ErrMatterNotFound   = errors.New("matter not found")
	ErrClientNotFound   = errors.New("client not found")
)

// AccessDeniedError carries the rule reason for a denial so the transport
// layer can report it without inspecting evaluator internals.
type AccessDeniedError struct {
	Reason authz.Reason
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + string(e.Reason)
}

// Store is the read surface the services need: everything the evaluators
// consume plus the listing queries. The Postgres implementation is
// repo.AuthzStore; tests use authz.MemoryStore.
type Store interface {
	authz.Store

	// ListDocuments and ListClients return live rows for the tenant with
	// basic filters applied. Limit zero means no cap; services paginate
	// after authorization filtering so pages are not silently short.
	ListDocuments(ctx context.Context, params domain.ListDocumentsParams) ([]domain.Document, error)
	ListClients(ctx context.Context, params domain.ListClientsParams) ([]domain.Client, error)
}
