package authz

import (
	"context"
	"errors"
	"fmt"

	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"

	"go.uber.org/zap"
)

// DocumentEvaluator decides access to documents. It has the richest rule
// list of the three evaluators: uploader, owner, matter inheritance,
// direct grant, group grant, folder grant, firm-wide privacy, sharing group.
type DocumentEvaluator struct {
	store   Store
	matters *MatterEvaluator
	log     *logger.Logger
	rules   []rule[*domain.Document]
}

// NewDocumentEvaluator creates the document evaluator. Matter inheritance
// delegates to the matter evaluator's access levels, which are cached per
// principal.
func NewDocumentEvaluator(store Store, matters *MatterEvaluator, log *logger.Logger) *DocumentEvaluator {
	e := &DocumentEvaluator{store: store, matters: matters, log: log}
	e.rules = []rule[*domain.Document]{
		{
			name: ReasonUploader,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				return d.UploadedBy == snap.principal.ID
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				return domain.OwnerCapabilities()
			},
		},
		{
			name: ReasonOwner,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				return d.OwnerID == snap.principal.ID
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				return domain.OwnerCapabilities()
			},
		},
		{
			name: ReasonMatterPermission,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				if d.MatterID == nil {
					return false
				}
				return snap.matterAccess[*d.MatterID] != MatterAccessNone
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				caps := domain.ViewDownloadCapabilities()
				// Firm-wide matter visibility alone never confers
				// document edit; only edit-level matter access does.
				if snap.matterAccess[*d.MatterID] == MatterAccessEdit {
					caps.Edit = true
				}
				return caps
			},
		},
		{
			name: ReasonExplicitPermission,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				_, ok := snap.directGrantCapabilities(d.ID)
				return ok
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.directGrantCapabilities(d.ID)
				return caps
			},
		},
		{
			name: ReasonGroupPermission,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				_, ok := snap.groupGrantCapabilities(d.ID)
				return ok
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.groupGrantCapabilities(d.ID)
				return caps
			},
		},
		{
			name: ReasonFolderPermission,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				if d.FolderPath == nil {
					return false
				}
				_, ok := resolveFolderGrant(*d.FolderPath, snap.folderGrants)
				return ok
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				grant, _ := resolveFolderGrant(*d.FolderPath, snap.folderGrants)
				return grant.Capabilities()
			},
		},
		{
			name: ReasonFirmWide,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				return d.PrivacyLevel == domain.PrivacyFirm
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				return domain.ViewDownloadCapabilities()
			},
		},
		{
			name: ReasonSharingGroup,
			appliesTo: func(d *domain.Document, snap *principalSnapshot) bool {
				_, ok := sharingCapabilities(snap, domain.ResourceDocuments, d.OwnerID, d.ID)
				return ok
			},
			capabilitiesIf: func(d *domain.Document, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := sharingCapabilities(snap, domain.ResourceDocuments, d.OwnerID, d.ID)
				return caps
			},
		},
	}
	return e
}

// CheckAccess performs a point access check for one document. A missing or
// cross-tenant document yields a document_not_found denial, not an error;
// callers surface that as 404, never 403.
func (e *DocumentEvaluator) CheckAccess(ctx context.Context, principal domain.Principal, documentID string, capability domain.Capability) (Decision, error) {
	doc, err := e.store.GetDocument(ctx, principal.TenantID, documentID)
	if errors.Is(err, ErrNotFound) {
		return Decision{Granted: false, Reason: ReasonDocumentNotFound}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("load document: %w", err)
	}

	if principal.Role.IsFullAccess() {
		return Decision{Granted: true, Reason: ReasonAdminRole}, nil
	}

	snap, err := e.buildSnapshot(ctx, principal)
	if err != nil {
		return Decision{}, err
	}

	decision := e.decide(doc, snap, capability)
	if !decision.Granted {
		e.log.Debug(ctx, "document access denied",
			logger.Module("authz"),
			logger.Action("check_access"),
			zap.String("document_id", documentID),
			zap.String("capability", string(capability)),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return decision, nil
}

// Filter returns a predicate over documents that is true for exactly the
// documents CheckAccess would grant at view capability. The predicate only
// covers view; callers needing edit-filtered lists must post-filter with
// CheckAccess per row.
func (e *DocumentEvaluator) Filter(ctx context.Context, principal domain.Principal) (func(*domain.Document) bool, error) {
	if principal.Role.IsFullAccess() {
		return func(d *domain.Document) bool {
			return d.TenantID == principal.TenantID
		}, nil
	}

	snap, err := e.buildSnapshot(ctx, principal)
	if err != nil {
		return nil, err
	}

	return func(d *domain.Document) bool {
		return e.decide(d, snap, domain.CapabilityView).Granted
	}, nil
}

func (e *DocumentEvaluator) decide(d *domain.Document, snap *principalSnapshot, capability domain.Capability) Decision {
	if d.TenantID != snap.principal.TenantID {
		return Decision{Granted: false, Reason: ReasonDocumentNotFound}
	}
	return decide(e.rules, d, snap, capability)
}

func (e *DocumentEvaluator) buildSnapshot(ctx context.Context, principal domain.Principal) (*principalSnapshot, error) {
	snap, err := buildSnapshot(ctx, e.store, principal, domain.ResourceDocuments)
	if err != nil {
		return nil, err
	}

	folderGrants, err := e.store.FolderGrantsForPrincipal(ctx, principal.TenantID, principal.ID, snap.groupIDs)
	if err != nil {
		return nil, fmt.Errorf("load folder grants: %w", err)
	}
	snap.folderGrants = folderGrants

	matterAccess, err := e.matters.AccessibleMatterLevels(ctx, principal)
	if err != nil {
		return nil, err
	}
	snap.matterAccess = matterAccess

	return snap, nil
}
