package model

import "context"

// Message roles understood by every completion provider.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// CompanyRecord is one row of the uploaded company table.
type CompanyRecord struct {
	Name        string // "Company Name" column
	Description string // "Description" column
}

// PromptConfig is the user-editable part of the completion request.
type PromptConfig struct {
	RoleLabel string // e.g. "VC analyst"
	Template  string // may contain COMPANY_NAME, COMPANY_DESCRIPTION, VC_DESCRIPTION
}

// ResultRow is one generated paragraph, keyed by the company it was written for.
type ResultRow struct {
	CompanyName         string
	PersonalizedSection string
}

// Message is a single turn in a completion request.
type Message struct {
	Role    string
	Content string
}

// Notice kinds.
const (
	NoticeTooManyRows        = "too_many_rows"
	NoticeDescriptionTooLong = "description_too_long"
	NoticeTest               = "test"
)

// Notice is a user-visible error message raised while processing a batch.
type Notice struct {
	Kind    string
	Company string // empty for batch-level notices
	Message string
}

// Completer sends a message exchange to a language model and returns the
// content of the first choice.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(notice Notice) error
}

// RecordFilter rejects records that must not be sent to the model.
// A nil error means the record may be processed.
type RecordFilter interface {
	Check(record CompanyRecord) error
}

// SessionStore persists session tables so a session can span several runs.
type SessionStore interface {
	CreateSession() (string, error)
	HasSession(id string) (bool, error)
	Load(id string) ([]ResultRow, error)
	Append(id string, rows []ResultRow) error
}
