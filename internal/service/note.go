package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"chatdesk/internal/model"
	"chatdesk/internal/policy"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
	"chatdesk/internal/validator"
)

// NoteService owns private notes: agent-authored annotations about users.
// A note is mutable only by its author; readable by its author and, one
// agent at a time, by the user it concerns.
type NoteService struct {
	store    repository.Store
	validate *validator.Validator
	log      *slog.Logger
}

func NewNoteService(store repository.Store, validate *validator.Validator, log *slog.Logger) *NoteService {
	return &NoteService{store: store, validate: validate, log: log}
}

type CreateNoteRequest struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Content       string     `json:"content" validate:"required"`
	RelatedUserID *uuid.UUID `json:"related_user_id"`
	Tags          []string   `json:"tags"`
}

func (s *NoteService) Create(ctx context.Context, actor session.Identity, req CreateNoteRequest) (model.PrivateNote, error) {
	if actor.Role != model.RoleAgent {
		return model.PrivateNote{}, ErrForbidden
	}
	if err := s.validate.Validate(req); err != nil {
		return model.PrivateNote{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.RelatedUserID != nil {
		if _, err := s.store.GetUserByID(ctx, *req.RelatedUserID); err != nil {
			return model.PrivateNote{}, lookupErr(err, "related user")
		}
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	note := model.PrivateNote{
		ID:            uuid.New(),
		Title:         req.Title,
		Content:       req.Content,
		AuthorID:      actor.ID,
		RelatedUserID: req.RelatedUserID,
		Tags:          tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return model.PrivateNote{}, fmt.Errorf("create note: %w", err)
	}

	s.log.Debug("note created", "note_id", note.ID, "author_id", actor.ID)
	return note, nil
}

type UpdateNoteRequest struct {
	Title   *string  `json:"title"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// Update rewrites a note's content (and optionally title/tags). Only the
// authoring agent may update; another agent gets Forbidden even though
// they could never read the note either.
func (s *NoteService) Update(ctx context.Context, actor session.Identity, noteID uuid.UUID, req UpdateNoteRequest) (model.PrivateNote, error) {
	if actor.Role != model.RoleAgent {
		return model.PrivateNote{}, ErrForbidden
	}
	if err := s.validate.Validate(req); err != nil {
		return model.PrivateNote{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.store.GetNoteByID(ctx, noteID)
	if err != nil {
		return model.PrivateNote{}, lookupErr(err, "note")
	}
	if d := policy.CanMutateNote(actor.ID, actor.Role, existing.AuthorID); !d.Allowed() {
		return model.PrivateNote{}, decisionErr(d)
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	tags := existing.Tags
	if req.Tags != nil {
		tags = req.Tags
	}

	updated, err := s.store.UpdateNote(ctx, noteID, title, req.Content, tags)
	if err != nil {
		return model.PrivateNote{}, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, actor session.Identity, noteID uuid.UUID) error {
	if actor.Role != model.RoleAgent {
		return ErrForbidden
	}

	existing, err := s.store.GetNoteByID(ctx, noteID)
	if err != nil {
		return lookupErr(err, "note")
	}
	if d := policy.CanMutateNote(actor.ID, actor.Role, existing.AuthorID); !d.Allowed() {
		return decisionErr(d)
	}

	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.log.Debug("note deleted", "note_id", noteID, "author_id", actor.ID)
	return nil
}

// ListByAuthor returns every note the acting agent has written.
func (s *NoteService) ListByAuthor(ctx context.Context, actor session.Identity) ([]model.NoteWithNames, error) {
	if actor.Role != model.RoleAgent {
		return nil, ErrForbidden
	}
	notes, err := s.store.NotesByAuthor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// ListForUser returns notes about subjectID, scoped by the access policy:
// an agent sees only their own notes about the subject, a user sees notes
// about themself from exactly one agent (agentFilter mandatory).
func (s *NoteService) ListForUser(ctx context.Context, actor session.Identity, subjectID uuid.UUID, agentFilter *uuid.UUID) ([]model.NoteWithNames, error) {
	scope, d := policy.ResolveNoteRead(actor.ID, actor.Role, subjectID, agentFilter)
	if !d.Allowed() {
		if d == policy.InvalidInput {
			return nil, fmt.Errorf("%w: agent id is required", ErrInvalidInput)
		}
		return nil, decisionErr(d)
	}

	notes, err := s.store.NotesByUserAndAgent(ctx, scope.SubjectID, scope.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// NoteSummary aggregates a user's notes per authoring agent: count plus
// latest activity. The detail for one agent is fetched with a second
// call to ListForUser.
type NoteSummary struct {
	Agent      UserSummary `json:"agent"`
	TotalNotes int         `json:"total_notes"`
	LatestNote time.Time   `json:"latest_note_date"`
}

// Summary groups the notes about the acting user by authoring agent,
// newest activity first. Users only; note bodies are not included.
func (s *NoteService) Summary(ctx context.Context, actor session.Identity) ([]NoteSummary, error) {
	if actor.Role != model.RoleUser {
		return nil, ErrForbidden
	}

	notes, err := s.store.NotesAboutUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	byAgent := make(map[uuid.UUID]*NoteSummary)
	for _, n := range notes {
		entry, ok := byAgent[n.AuthorID]
		if !ok {
			entry = &NoteSummary{
				Agent: UserSummary{ID: n.AuthorID, Name: n.AuthorName, Role: model.RoleAgent},
			}
			byAgent[n.AuthorID] = entry
		}
		entry.TotalNotes++
		if n.UpdatedAt.After(entry.LatestNote) {
			entry.LatestNote = n.UpdatedAt
		}
	}

	summaries := make([]NoteSummary, 0, len(byAgent))
	for _, entry := range byAgent {
		summaries = append(summaries, *entry)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LatestNote.After(summaries[j].LatestNote)
	})
	return summaries, nil
}
