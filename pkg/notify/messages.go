package notify

// Validation warnings. They are raised before any request is built.
const (
	MsgFillAllFields      = "Please fill in all fields"
	MsgEnterUsername      = "Please enter a username"
	MsgEnterBulkData      = "Please enter bulk data"
	MsgNoValidAssignments = "No valid assignments found"
	MsgSelectFile         = "Please select a file"
	MsgSelectOperation    = "Please select an operation type"
	MsgSearchCriteria     = "Please enter at least one search criteria"
	MsgConnectFirst       = "Please connect to Oracle first"
)
