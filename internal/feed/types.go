package feed

import "strings"

// Entry mirrors one record of the remote list payload.
type Entry struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	URL   string `json:"url"`
}

// Caption returns a short display label for the entry.
func (e Entry) Caption() string {
	if name := strings.TrimSpace(e.Name); name != "" {
		return name
	}
	url := strings.TrimSpace(e.URL)
	if idx := strings.LastIndex(url, "/"); idx >= 0 && idx < len(url)-1 {
		return url[idx+1:]
	}
	return url
}
