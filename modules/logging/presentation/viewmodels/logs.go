package viewmodels

type Activity struct {
	ID        uint   `json:"id"`
	Action    string `json:"action"`
	Target    string `json:"target"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

type LogsPageProps struct {
	BasePath string      `json:"-"`
	Logs     []*Activity `json:"logs"`
	Total    int64       `json:"total"`
	Limit    int         `json:"limit"`
}
