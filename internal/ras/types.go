package ras

import "time"

// Token is the opaque session credential issued at sign-in. It is bound to
// one login/logout bracket and must accompany every authenticated call.
type Token string

// Account identifies the signed-in account as reported by SignIn.
type Account struct {
	ID        int64  `json:"AccountID"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

// FullName returns the display name of the account.
func (a Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// SignInParams carries the credentials and client identity for SignIn.
type SignInParams struct {
	LoginName   string `json:"loginName"`
	Password    string `json:"password"`
	AdminMode   bool   `json:"adminMode"`
	Version     string `json:"version"`
	Workstation string `json:"workstation"`
	Locale      string `json:"locale"`
	TimeZoneID  string `json:"timeZoneId"`
}

// OrderQuery bounds a BrowseOrders call to one site, one time window and one
// result page.
type OrderQuery struct {
	SiteID         int
	From           time.Time
	To             time.Time
	OrderStatus    string
	TransferStatus string
	ReportStatus   string
	Sort           string
	PageSize       int
	PageNumber     int
}

// Order is a completed-report record returned by BrowseOrders. Orders are
// transient; they are fetched per cycle and never retained.
type Order struct {
	ReportID     int64     `json:"ReportID"`
	Signer       *Signer   `json:"Signer"`
	LastModified time.Time `json:"LastModifiedDate"`
}

// Signer references the account that signed the report, when present.
type Signer struct {
	ID   int64  `json:"ID"`
	Name string `json:"Name"`
}

// EventQuery selects which activity events GetReportEvents returns for a
// report.
type EventQuery struct {
	ReportID          int64
	EventsWithContent bool
	ExcludeViewEvents bool
	FetchBlob         bool
}

// ActivityEvent is one occurrence of user activity on a report.
type ActivityEvent struct {
	Type           string       `json:"Type"`
	EventTime      time.Time    `json:"EventTime"`
	Workstation    string       `json:"Workstation"`
	AdditionalInfo string       `json:"AdditionalInfo"`
	Account        EventAccount `json:"Account"`
}

// EventAccount identifies the user who performed an activity event.
type EventAccount struct {
	ID   int64  `json:"ID"`
	Name string `json:"Name"`
}
