package constants

// Asset status values.
const (
	StatusAvailable   = "available"
	StatusAssigned    = "assigned"
	StatusMaintenance = "maintenance"
)

// Asset kind values. Stock lines carry a quantity instead of being tracked individually.
const (
	KindAsset = "asset"
	KindStock = "stock"
)

// Defaults applied when a record is created without the field.
const (
	DefaultLocation = "Unassigned"
	DefaultQuantity = 1
	DefaultCategory = "General"
)

// View tabs understood by the client-side filters.
const (
	TabAll        = "all"
	TabAvailable  = "available"
	TabCheckedOut = "checked_out"
)

// UI sections remembered across restarts.
const (
	SectionDashboard = "dashboard"
	SectionAssets    = "assets"
	SectionStock     = "stock"
	SectionReports   = "reports"
)

// ValidStatuses lists every legal status.
var ValidStatuses = map[string]bool{
	StatusAvailable:   true,
	StatusAssigned:    true,
	StatusMaintenance: true,
}

// ValidKinds lists every legal kind.
var ValidKinds = map[string]bool{
	KindAsset: true,
	KindStock: true,
}

// ValidSections lists every section a session can land on.
var ValidSections = map[string]bool{
	SectionDashboard: true,
	SectionAssets:    true,
	SectionStock:     true,
	SectionReports:   true,
}
