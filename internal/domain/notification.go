package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates the notification categories.
type NotificationType string

const (
	NotificationTypeTaskAssigned     NotificationType = "TaskAssigned"
	NotificationTypeTaskOverdue      NotificationType = "TaskOverdue"
	NotificationTypeStatusUpdate     NotificationType = "StatusUpdate"
	NotificationTypeDocumentUploaded NotificationType = "DocumentUploaded"
	NotificationTypeGuideAssigned    NotificationType = "GuideAssigned"
	NotificationTypeCaseCompleted    NotificationType = "CaseCompleted"
	NotificationTypeReminder         NotificationType = "Reminder"
	NotificationTypeSystem           NotificationType = "System"
)

// ChannelType enumerates delivery channels.
type ChannelType string

const (
	ChannelInApp ChannelType = "inApp"
	ChannelEmail ChannelType = "email"
	ChannelSMS   ChannelType = "sms"
	ChannelPush  ChannelType = "push"
)

// ChannelStatus tracks per-channel delivery progress.
type ChannelStatus string

const (
	ChannelStatusPending   ChannelStatus = "pending"
	ChannelStatusSent      ChannelStatus = "sent"
	ChannelStatusDelivered ChannelStatus = "delivered"
	ChannelStatusFailed    ChannelStatus = "failed"
)

// DeliveryChannel is one channel attempt within a notification.
type DeliveryChannel struct {
	Type          ChannelType   `json:"type"`
	Status        ChannelStatus `json:"status"`
	SentAt        *time.Time    `json:"sentAt,omitempty"`
	DeliveredAt   *time.Time    `json:"deliveredAt,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

// NotificationStatus is the overall lifecycle of a notification.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusRead      NotificationStatus = "read"
	NotificationStatusDismissed NotificationStatus = "dismissed"
	NotificationStatusFailed    NotificationStatus = "failed"
)

// Notification is a message to one recipient, fanned out over one or more
// delivery channels.
type Notification struct {
	ID                uuid.UUID          `json:"id"`
	NotificationID    string             `json:"notificationId"`
	RecipientID       uuid.UUID          `json:"recipientId"`
	RecipientEmail    string             `json:"recipientEmail,omitempty"`
	Title             string             `json:"title"`
	Message           string             `json:"message"`
	Type              NotificationType   `json:"type"`
	Priority          Priority           `json:"priority"`
	RelatedEntityType EntityType         `json:"relatedEntityType,omitempty"`
	RelatedEntityID   uuid.UUID          `json:"relatedEntityId,omitempty"`
	Channels          []DeliveryChannel  `json:"channels"`
	Status            NotificationStatus `json:"status"`
	IsRead            bool               `json:"isRead"`
	ReadAt            *time.Time         `json:"readAt,omitempty"`
	IsDismissed       bool               `json:"isDismissed"`
	DismissedAt       *time.Time         `json:"dismissedAt,omitempty"`
	ScheduledFor      *time.Time         `json:"scheduledFor,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NotificationSpec is the collaborator contract for requesting a
// notification; channel fan-out is internal to the notification service.
type NotificationSpec struct {
	RecipientID       uuid.UUID
	Title             string
	Message           string
	Type              NotificationType
	Priority          Priority
	RelatedEntityType EntityType
	RelatedEntityID   uuid.UUID
	ScheduledFor      *time.Time
}
