package models

// Channel represents a YouTube channel resolved from a link
type Channel struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	UploadsPlaylistID string `json:"uploadsPlaylistId"`
}

// ChannelQuery selects a channel either by ID or by legacy username
type ChannelQuery struct {
	ID       string
	Username string
}

// String identifies the query in logs and errors
func (q ChannelQuery) String() string {
	if q.ID != "" {
		return "id=" + q.ID
	}
	return "username=" + q.Username
}
