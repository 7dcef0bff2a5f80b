package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"chatdesk/internal/database"
	"chatdesk/internal/model"
)

// Ensure PostgresStore satisfies the Store interface at compile time.
var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *database.Database
}

func NewPostgresStore(db *database.Database) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// wrapErr maps driver errors onto the repository sentinels.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

// Users

const userColumns = `id, name, email, COALESCE(phone, ''), password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, wrapErr(err)
	}
	return u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", wrapErr(err))
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByPhone(ctx context.Context, phone string) (model.User, error) {
	row := s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	return scanUser(row)
}

func (s *PostgresStore) ListActiveUsers(ctx context.Context, role *model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = true`
	args := []any{}
	if role != nil {
		query += ` AND role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) ListUsers(ctx context.Context, limit, offset int, role *model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != nil {
		query += ` WHERE role = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *role, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (model.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		UPDATE users SET is_active = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING `+userColumns, active, id)
	return scanUser(row)
}

// DeleteUser issues a single DELETE; messages, notes, and memberships go
// with the row through the ON DELETE CASCADE constraints.
func (s *PostgresStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Groups

func (s *PostgresStore) CreateGroup(ctx context.Context, group model.Group) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO groups (id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID, group.Name, group.Description, group.CreatedBy, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create group: %w", wrapErr(err))
	}
	return nil
}

func (s *PostgresStore) GetGroupByID(ctx context.Context, id uuid.UUID) (model.Group, error) {
	var g model.Group
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, COALESCE(created_by, '00000000-0000-0000-0000-000000000000'), created_at, updated_at
		FROM groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Group{}, wrapErr(err)
	}
	return g, nil
}

const groupSummaryQuery = `
	SELECT g.id, g.name, g.description, COALESCE(g.created_by, '00000000-0000-0000-0000-000000000000'),
	       g.created_at, g.updated_at,
	       COALESCE(u.name, ''), COALESCE(u.role, 'AGENT'),
	       COUNT(DISTINCT gm.user_id), COUNT(DISTINCT m.id)
	FROM groups g
	LEFT JOIN users u ON g.created_by = u.id
	LEFT JOIN group_members gm ON g.id = gm.group_id
	LEFT JOIN messages m ON g.id = m.group_id`

const groupSummaryTail = `
	GROUP BY g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at, u.name, u.role
	ORDER BY g.updated_at DESC`

func (s *PostgresStore) ListGroups(ctx context.Context) ([]model.GroupSummary, error) {
	rows, err := s.db.Pool.Query(ctx, groupSummaryQuery+groupSummaryTail)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()
	return collectGroupSummaries(rows)
}

func (s *PostgresStore) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.GroupSummary, error) {
	query := groupSummaryQuery + `
	WHERE g.id IN (SELECT group_id FROM group_members WHERE user_id = $1)` + groupSummaryTail
	rows, err := s.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	defer rows.Close()
	return collectGroupSummaries(rows)
}

func collectGroupSummaries(rows pgx.Rows) ([]model.GroupSummary, error) {
	var groups []model.GroupSummary
	for rows.Next() {
		var g model.GroupSummary
		err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt,
			&g.CreatorName, &g.CreatorRole, &g.MemberCount, &g.MessageCount)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) AddGroupMember(ctx context.Context, member model.GroupMember) error {
	// Re-adding an existing member is a no-op, matching the unique
	// (user_id, group_id) pair.
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO group_members (id, user_id, group_id, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, group_id) DO NOTHING`,
		member.ID, member.UserID, member.GroupID, member.JoinedAt)
	if err != nil {
		return fmt.Errorf("add group member: %w", wrapErr(err))
	}
	return nil
}

func (s *PostgresStore) GetMembership(ctx context.Context, userID, groupID uuid.UUID) (model.GroupMember, error) {
	var m model.GroupMember
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, group_id, joined_at FROM group_members
		WHERE user_id = $1 AND group_id = $2`, userID, groupID).
		Scan(&m.ID, &m.UserID, &m.GroupID, &m.JoinedAt)
	if err != nil {
		return model.GroupMember{}, wrapErr(err)
	}
	return m, nil
}

func (s *PostgresStore) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]model.GroupMemberDetail, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT u.id, u.name, u.email, COALESCE(u.phone, ''), u.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("group members: %w", err)
	}
	defer rows.Close()

	var members []model.GroupMemberDetail
	for rows.Next() {
		var m model.GroupMemberDetail
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// TouchGroup bumps the group's updated_at so freshness ordering tracks the
// latest message.
func (s *PostgresStore) TouchGroup(ctx context.Context, groupID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE groups SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("touch group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Messages

func (s *PostgresStore) CreateMessage(ctx context.Context, msg model.Message) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO messages (id, content, sender_id, group_id, receiver_id, channel, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.Content, msg.SenderID, msg.GroupID, msg.ReceiverID, msg.Channel, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", wrapErr(err))
	}
	return nil
}

const messageWithSenderColumns = `
	m.id, m.content, m.sender_id, m.group_id, m.receiver_id, m.channel, m.created_at, m.updated_at,
	u.name, u.role`

func collectMessages(rows pgx.Rows) ([]model.MessageWithSender, error) {
	var msgs []model.MessageWithSender
	for rows.Next() {
		var m model.MessageWithSender
		err := rows.Scan(&m.ID, &m.Content, &m.SenderID, &m.GroupID, &m.ReceiverID, &m.Channel,
			&m.CreatedAt, &m.UpdatedAt, &m.SenderName, &m.SenderRole)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *PostgresStore) DirectMessages(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]model.MessageWithSender, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+messageWithSenderColumns+`
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE ((m.sender_id = $1 AND m.receiver_id = $2)
		    OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at DESC
		LIMIT $3 OFFSET $4`, userA, userB, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("direct messages: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (s *PostgresStore) GroupMessages(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]model.MessageWithSender, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+messageWithSenderColumns+`
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.group_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("group messages: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// DirectMessagePartners returns one row per direct-message peer with the
// most recent exchanged message, newest thread first. Redirect artifacts
// never surface as previews.
func (s *PostgresStore) DirectMessagePartners(ctx context.Context, userID uuid.UUID) ([]model.ConversationPartner, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.other_id, u.name, u.role, p.content, p.created_at
		FROM (
			SELECT DISTINCT ON (other_id) *
			FROM (
				SELECT CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS other_id,
				       m.content, m.created_at
				FROM messages m
				WHERE (m.sender_id = $1 OR m.receiver_id = $1)
				  AND m.group_id IS NULL
				  AND m.channel = 'NORMAL'
			) t
			ORDER BY other_id, created_at DESC
		) p
		JOIN users u ON u.id = p.other_id
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("direct message partners: %w", err)
	}
	defer rows.Close()

	var partners []model.ConversationPartner
	for rows.Next() {
		var p model.ConversationPartner
		var last model.LastMessage
		if err := rows.Scan(&p.UserID, &p.Name, &p.Role, &last.Content, &last.CreatedAt); err != nil {
			return nil, err
		}
		p.LastMessage = &last
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (s *PostgresStore) ActiveUsersExcluding(ctx context.Context, exclude []uuid.UUID, role *model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = true AND id != ALL($1)`
	args := []any{exclude}
	if role != nil {
		query += ` AND role = $2`
		args = append(args, *role)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("active users excluding: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Private notes

func (s *PostgresStore) CreateNote(ctx context.Context, note model.PrivateNote) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO private_notes (id, title, content, author_id, related_user_id, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		note.ID, note.Title, note.Content, note.AuthorID, note.RelatedUserID, note.Tags, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", wrapErr(err))
	}
	return nil
}

func scanNote(row pgx.Row) (model.PrivateNote, error) {
	var n model.PrivateNote
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.AuthorID, &n.RelatedUserID, &n.Tags, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return model.PrivateNote{}, wrapErr(err)
	}
	return n, nil
}

func (s *PostgresStore) GetNoteByID(ctx context.Context, id uuid.UUID) (model.PrivateNote, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT id, title, content, author_id, related_user_id, tags, created_at, updated_at
		FROM private_notes WHERE id = $1`, id)
	return scanNote(row)
}

func (s *PostgresStore) UpdateNote(ctx context.Context, id uuid.UUID, title, content string, tags []string) (model.PrivateNote, error) {
	row := s.db.Pool.QueryRow(ctx, `
		UPDATE private_notes
		SET title = $1, content = $2, tags = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, title, content, author_id, related_user_id, tags, created_at, updated_at`,
		title, content, tags, id)
	return scanNote(row)
}

func (s *PostgresStore) DeleteNote(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM private_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const noteWithNamesColumns = `
	pn.id, pn.title, pn.content, pn.author_id, pn.related_user_id, pn.tags, pn.created_at, pn.updated_at,
	COALESCE(a.name, ''), COALESCE(ru.name, '')`

const noteWithNamesJoins = `
	FROM private_notes pn
	LEFT JOIN users a ON pn.author_id = a.id
	LEFT JOIN users ru ON pn.related_user_id = ru.id`

func collectNotes(rows pgx.Rows) ([]model.NoteWithNames, error) {
	var notes []model.NoteWithNames
	for rows.Next() {
		var n model.NoteWithNames
		err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.AuthorID, &n.RelatedUserID, &n.Tags,
			&n.CreatedAt, &n.UpdatedAt, &n.AuthorName, &n.RelatedUserName)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *PostgresStore) NotesByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.NoteWithNames, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+noteWithNamesColumns+noteWithNamesJoins+`
		WHERE pn.author_id = $1
		ORDER BY pn.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("notes by author: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (s *PostgresStore) NotesByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) ([]model.NoteWithNames, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+noteWithNamesColumns+noteWithNamesJoins+`
		WHERE pn.related_user_id = $1 AND pn.author_id = $2
		ORDER BY pn.created_at DESC`, userID, agentID)
	if err != nil {
		return nil, fmt.Errorf("notes by user and agent: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (s *PostgresStore) NotesAboutUser(ctx context.Context, userID uuid.UUID) ([]model.NoteWithNames, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+noteWithNamesColumns+noteWithNamesJoins+`
		WHERE pn.related_user_id = $1
		ORDER BY pn.updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("notes about user: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// Admin

func scanAdmin(row pgx.Row) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Admin{}, wrapErr(err)
	}
	return a, nil
}

func (s *PostgresStore) GetAdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins WHERE username = $1`, username)
	return scanAdmin(row)
}

func (s *PostgresStore) GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins WHERE id = $1`, id)
	return scanAdmin(row)
}

func (s *PostgresStore) UpdateAdminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE admins SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DashboardStats reads the aggregate counts in one round trip. No caching;
// the numbers always reflect current store state.
func (s *PostgresStore) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'USER'),
			(SELECT COUNT(*) FROM users WHERE role = 'AGENT'),
			(SELECT COUNT(*) FROM users WHERE role = 'AGENT' AND is_active = false),
			(SELECT COUNT(*) FROM groups),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM private_notes)`).
		Scan(&stats.TotalUsers, &stats.TotalAgents, &stats.PendingAgents,
			&stats.TotalGroups, &stats.TotalMessages, &stats.TotalNotes)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
