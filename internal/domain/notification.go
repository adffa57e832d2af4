package domain

import "errors"

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyInfo, NotifyWarning, NotifySuccess, NotifyError:
		return true
	}
	return false
}

type Notification struct {
	ID           int64            `json:"id"`
	UserID       int64            `json:"user_id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Link         string           `json:"link,omitempty"`
	IsRead       bool             `json:"is_read"`
	ResourceID   *int64           `json:"resource_id,omitempty"`
	ResourceType ResourceKind     `json:"resource_type,omitempty"`
	CreatedAt    Timestamp        `json:"created_at"`
	User         *User            `json:"user,omitempty"`
}

// Resource returns the typed reference carried by the notification, if any.
func (n Notification) Resource() (Ref, bool) {
	if n.ResourceType == ResourceNone || n.ResourceID == nil {
		return Ref{}, false
	}
	return Ref{Kind: n.ResourceType, ID: *n.ResourceID}, true
}

// ManualNotification is the admin broadcast payload.
type ManualNotification struct {
	UserIDs      []int64          `json:"user_ids"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Link         string           `json:"link,omitempty"`
	ResourceID   *int64           `json:"resource_id,omitempty"`
	ResourceType ResourceKind     `json:"resource_type,omitempty"`
}

func (m ManualNotification) Validate() error {
	switch {
	case len(m.UserIDs) == 0:
		return errors.New("at least one recipient is required")
	case !m.Type.Valid():
		return errors.New("unknown notification type")
	case m.Title == "" || m.Message == "":
		return errors.New("title and message are required")
	case (m.ResourceType == ResourceNone) != (m.ResourceID == nil):
		return errors.New("resource type and id go together")
	}
	return nil
}
