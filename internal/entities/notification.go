package entities

import "time"

// NotificationKind names the message template of a notification intent.
type NotificationKind string

const (
	KindInvited           NotificationKind = "invited"
	KindReadyForReview    NotificationKind = "ready_for_review"
	KindWithdrawn         NotificationKind = "withdrawn"
	KindApproved          NotificationKind = "approved"
	KindRejected          NotificationKind = "rejected"
	KindNowUnderReview    NotificationKind = "now_under_review"
	KindExpired           NotificationKind = "expired"
	KindTeamMemberAdded   NotificationKind = "team_member_added"
	KindTeamMemberRemoved NotificationKind = "team_member_removed"
)

// Notification is an intent for the notifier: who, which template, what payload.
type Notification struct {
	ID          string
	RecipientID string
	Kind        NotificationKind
	Payload     map[string]string
	CreatedAt   time.Time
	DeliveredAt *time.Time
}
