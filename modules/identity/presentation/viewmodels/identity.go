package viewmodels

import (
	logvm "github.com/iota-uz/hcm-console/modules/logging/presentation/viewmodels"
)

type Tile struct {
	Key   string
	Label string
	Value string
	// Failed tiles show Value as an error marker.
	Failed bool
}

type Dashboard struct {
	Tiles     []Tile
	Recent    []*logvm.Activity
	RecentErr string
	LivePath  string
	UpdatedAt string
}

// LiveSnapshot is pushed to dashboard websocket subscribers.
type LiveSnapshot struct {
	Tiles map[string]string `json:"tiles"`
	At    string            `json:"at"`
}

type User struct {
	Username    string
	DisplayName string
	Email       string
	Active      bool
	Roles       []string
}

type Role struct {
	Name        string
	Description string
}

type AOR struct {
	ID   string
	Name string
	Type string
}

type SecurityContext struct {
	Context string
	Value   string
}

type UserDetails struct {
	Username         string
	PersonNumber     string
	DisplayName      string
	Email            string
	Active           bool
	Roles            []Role
	AORs             []AOR
	SecurityContexts []SecurityContext
}

type BulkStatus struct {
	Success bool
	Message string
}

type BulkSummary struct {
	Total      int
	Successful int
	Failed     int
	Results    []BulkStatus
}

type UploadRow struct {
	Row      int
	Username string
	Text     string
}

type UploadSummary struct {
	Total      int
	Successful int
	Failed     int
	Errors     []UploadRow
	Processed  []UploadRow
}

type Template struct {
	Kind     string
	Label    string
	CSVHref  string
	XLSXHref string
}
