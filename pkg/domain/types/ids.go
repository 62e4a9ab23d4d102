package types

import "github.com/google/uuid"

// Entity identifiers are strings carrying a semantic prefix by convention
// (task-1, inst-2, comment-<uuid>). Seeded workflow entities use numeric
// suffixes; generated chat entities use random suffixes.

type (
	ProcessID     string
	StepID        string
	InstanceID    string
	TaskID        string
	CommentID     string
	MessageID     string
	LogID         string
	UserID        string
	ApplicationID string
	AttachmentID  string
)

func (x ProcessID) String() string     { return string(x) }
func (x StepID) String() string        { return string(x) }
func (x InstanceID) String() string    { return string(x) }
func (x TaskID) String() string        { return string(x) }
func (x CommentID) String() string     { return string(x) }
func (x MessageID) String() string     { return string(x) }
func (x LogID) String() string         { return string(x) }
func (x UserID) String() string        { return string(x) }
func (x ApplicationID) String() string { return string(x) }
func (x AttachmentID) String() string  { return string(x) }

// NewCommentID generates a new comment identifier
func NewCommentID() CommentID {
	return CommentID("comment-" + uuid.NewString())
}

// NewMessageID generates a new message identifier
func NewMessageID() MessageID {
	return MessageID("msg-" + uuid.NewString())
}

// NewLogID generates a new workflow log identifier
func NewLogID() LogID {
	return LogID("log-" + uuid.NewString())
}
