package bot

import (
	"sync"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

// Flow is the dialog a user is currently in. Exactly one of NewSubmission,
// FieldEdit, ContactAdmin or AdminReply.
type Flow interface {
	flow()
}

// NewSubmission collects the form answers in db.FormFieldOrder.
type NewSubmission struct {
	Step    int
	Answers db.FormFields
}

// FieldEdit waits for a replacement value of one field.
type FieldEdit struct {
	Field db.FormField
}

// ContactAdmin waits for a message to forward to the moderation channel.
type ContactAdmin struct{}

// AdminReply waits for a moderator's message to relay to TargetUserID.
type AdminReply struct {
	TargetUserID int64
}

func (*NewSubmission) flow() {}
func (*FieldEdit) flow()     {}
func (*ContactAdmin) flow()  {}
func (*AdminReply) flow()    {}

// Field is the question currently awaiting an answer.
func (s *NewSubmission) Field() db.FormField {
	return db.FormFieldOrder[s.Step]
}

// Answer stores value for the current question and advances. It reports true
// once every field has been collected.
func (s *NewSubmission) Answer(value string) bool {
	s.Answers.Set(s.Field(), value)
	s.Step++

	return s.Step >= len(db.FormFieldOrder)
}

// Sessions holds the active flow per user id. Starting a flow replaces
// whatever the user had open; there is no stacking or resumption.
type Sessions struct {
	mu    sync.Mutex
	flows map[int64]Flow
}

func NewSessions() *Sessions {
	return &Sessions{flows: make(map[int64]Flow)}
}

func (s *Sessions) Start(userID int64, flow Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flows[userID] = flow
}

func (s *Sessions) Get(userID int64) (Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[userID]

	return flow, ok
}

// Clear drops the user's flow and reports whether one was active.
func (s *Sessions) Clear(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.flows[userID]
	delete(s.flows, userID)

	return ok
}
