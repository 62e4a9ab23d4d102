package model

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Comment is a task-scoped note. Append-only; creating one increments the
// owning task's notification counter.
type Comment struct {
	ID        types.CommentID `firestore:"id" json:"id"`
	TaskID    types.TaskID    `firestore:"task_id" json:"taskId"`
	UserID    types.UserID    `firestore:"user_id" json:"userId"`
	Content   string          `firestore:"content" json:"content"`
	CreatedAt time.Time       `firestore:"created_at" json:"createdAt"`
}

// MessageRefs holds the entity references extracted from a message body.
// They are computed once at creation time, not at display time.
type MessageRefs struct {
	TaskIDs     []string `firestore:"task_ids,omitempty" json:"taskIds,omitempty"`
	InstanceIDs []string `firestore:"instance_ids,omitempty" json:"instanceIds,omitempty"`
}

// Message is a free-form chat message annotated with parsed references.
// Append-only, never mutated.
type Message struct {
	ID        types.MessageID `firestore:"id" json:"id"`
	UserID    types.UserID    `firestore:"user_id" json:"userId"`
	Content   string          `firestore:"content" json:"content"`
	Refs      MessageRefs     `firestore:"refs" json:"references"`
	CreatedAt time.Time       `firestore:"created_at" json:"createdAt"`
}
