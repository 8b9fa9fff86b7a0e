package domain

// Capability is one of the closed set of actions a principal can request
// on a resource.
type Capability string

const (
	CapabilityView     Capability = "view"
	CapabilityDownload Capability = "download"
	CapabilityEdit     Capability = "edit"
	CapabilityDelete   Capability = "delete"
	CapabilityShare    Capability = "share"
	CapabilityManage   Capability = "manage"
)

// IsValid checks if the capability is one of the defined constants.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityView, CapabilityDownload, CapabilityEdit,
		CapabilityDelete, CapabilityShare, CapabilityManage:
		return true
	default:
		return false
	}
}

// CapabilitySet is the set of capabilities a rule or grant confers.
type CapabilitySet struct {
	View     bool `json:"view"`
	Download bool `json:"download"`
	Edit     bool `json:"edit"`
	Delete   bool `json:"delete"`
	Share    bool `json:"share"`
	Manage   bool `json:"manage"`
}

// Has reports whether the set covers the given capability.
func (s CapabilitySet) Has(c Capability) bool {
	switch c {
	case CapabilityView:
		return s.View
	case CapabilityDownload:
		return s.Download
	case CapabilityEdit:
		return s.Edit
	case CapabilityDelete:
		return s.Delete
	case CapabilityShare:
		return s.Share
	case CapabilityManage:
		return s.Manage
	default:
		return false
	}
}

// Union returns the set containing every capability present in either set.
func (s CapabilitySet) Union(other CapabilitySet) CapabilitySet {
	return CapabilitySet{
		View:     s.View || other.View,
		Download: s.Download || other.Download,
		Edit:     s.Edit || other.Edit,
		Delete:   s.Delete || other.Delete,
		Share:    s.Share || other.Share,
		Manage:   s.Manage || other.Manage,
	}
}

// IsEmpty reports whether the set confers nothing.
func (s CapabilitySet) IsEmpty() bool {
	return s == CapabilitySet{}
}

// ViewDownloadCapabilities is what passive visibility (firm-wide privacy,
// sharing groups, matter inheritance) confers by default.
func ViewDownloadCapabilities() CapabilitySet {
	return CapabilitySet{View: true, Download: true}
}

// OwnerCapabilities is what ownership of a resource confers: everything
// except permission management, which stays with full-access roles.
func OwnerCapabilities() CapabilitySet {
	return CapabilitySet{View: true, Download: true, Edit: true, Delete: true, Share: true}
}

// AllCapabilities is the full set, used for full-access roles.
func AllCapabilities() CapabilitySet {
	return CapabilitySet{View: true, Download: true, Edit: true, Delete: true, Share: true, Manage: true}
}
