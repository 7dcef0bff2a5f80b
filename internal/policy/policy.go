// Package policy holds the authorization and visibility rules for
// messages, groups, and private notes. Every function is pure: decisions
// are computed from the actor, the target, and already-fetched rows, never
// from I/O.
package policy

import (
	"github.com/google/uuid"

	"chatdesk/internal/model"
)

// Decision is the tagged outcome of an authorization check. A single
// existence-disclosure discipline applies everywhere: NotFound is the
// answer for resources the actor has no right to know about, Forbidden is
// reserved for actions on resources whose existence the actor already
// knows.
type Decision int

const (
	Allow Decision = iota
	Forbidden
	NotFound
	InvalidInput
)

func (d Decision) Allowed() bool { return d == Allow }

// CanDirectMessage reports whether actorRole may open a direct thread
// with targetRole. Users reach agents only; agents reach anyone.
func CanDirectMessage(actorRole, targetRole model.Role) Decision {
	if actorRole == model.RoleAgent {
		return Allow
	}
	if actorRole == model.RoleUser && targetRole == model.RoleAgent {
		return Allow
	}
	return Forbidden
}

// CanAccessGroup covers both reading and posting: agents unconditionally,
// users only with a membership row.
func CanAccessGroup(actorRole model.Role, isMember bool) Decision {
	if actorRole == model.RoleAgent {
		return Allow
	}
	if isMember {
		return Allow
	}
	return Forbidden
}

// CanCreateGroup restricts group creation and membership mutation to
// agents.
func CanCreateGroup(actorRole model.Role) Decision {
	if actorRole == model.RoleAgent {
		return Allow
	}
	return Forbidden
}

// FilterGroupMessages applies the read-time visibility rules to a fetched
// transcript. Agents see everything; users see agent messages and their
// own. Redirect artifacts are dropped for every viewer — they are not
// conversational turns. Storage is never filtered; this runs on the way
// out only.
func FilterGroupMessages(viewerID uuid.UUID, viewerRole model.Role, msgs []model.MessageWithSender) []model.MessageWithSender {
	out := make([]model.MessageWithSender, 0, len(msgs))
	for _, m := range msgs {
		if m.Channel == model.ChannelWhatsAppRedirect {
			continue
		}
		if viewerRole != model.RoleAgent && m.SenderID != viewerID && m.SenderRole != model.RoleAgent {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FilterDirectMessages drops redirect artifacts from a direct thread.
// Participant checks happen before the fetch; content-level filtering is
// only about the synthetic channel.
func FilterDirectMessages(msgs []model.MessageWithSender) []model.MessageWithSender {
	out := make([]model.MessageWithSender, 0, len(msgs))
	for _, m := range msgs {
		if m.Channel == model.ChannelWhatsAppRedirect {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CanMutateNote decides create/update/delete on a private note. Only
// agents hold notes, and only the authoring agent may touch an existing
// one. A non-author agent gets Forbidden: the note id was already in their
// hands, so existence is not a secret worth keeping.
func CanMutateNote(actorID uuid.UUID, actorRole model.Role, authorID uuid.UUID) Decision {
	if actorRole != model.RoleAgent {
		return Forbidden
	}
	if actorID != authorID {
		return Forbidden
	}
	return Allow
}

// NoteReadScope is what a note listing request resolves to after
// authorization.
type NoteReadScope struct {
	// AuthorID is the agent whose notes may be returned.
	AuthorID uuid.UUID
	// SubjectID is the user the notes are about.
	SubjectID uuid.UUID
}

// ResolveNoteRead authorizes a request to list notes about subjectID.
// Agents read only their own notes about the subject. Users read notes
// about themselves, one authoring agent at a time: agentFilter is
// mandatory for them, so a user can never pull every agent's notes in a
// single call. Cross-user access is Forbidden.
func ResolveNoteRead(actorID uuid.UUID, actorRole model.Role, subjectID uuid.UUID, agentFilter *uuid.UUID) (NoteReadScope, Decision) {
	switch actorRole {
	case model.RoleAgent:
		return NoteReadScope{AuthorID: actorID, SubjectID: subjectID}, Allow
	case model.RoleUser:
		if actorID != subjectID {
			return NoteReadScope{}, Forbidden
		}
		if agentFilter == nil {
			return NoteReadScope{}, InvalidInput
		}
		return NoteReadScope{AuthorID: *agentFilter, SubjectID: subjectID}, Allow
	default:
		return NoteReadScope{}, Forbidden
	}
}
