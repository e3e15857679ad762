// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"time"
)

// =============================================================================
// RESPONSE ENVELOPE
// =============================================================================

// Response is the envelope shared by every bitum endpoint.
type Response[T any] struct {
	OK    bool   `json:"ok"`
	Error *Error `json:"error"`
	Data  *T     `json:"data"`
}

// Err returns the server-reported error for a failed envelope, or nil when
// the envelope is ok. The returned value satisfies the error interface.
func (r *Response[T]) Err() error {
	if r.OK {
		return nil
	}
	if r.Error != nil {
		return r.Error
	}
	return &Error{Message: "request failed"}
}

// Error is a server-reported failure. Code mirrors the HTTP status the
// server chose for the condition (409 for duplicates, 403 for permission
// denials, and so on).
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("server error [%d]: %s", e.Code, e.Message)
	}
	return "server error: " + e.Message
}

// IsConflict reports whether err is a server-reported duplicate
// (user already registered, member already in the chat).
func IsConflict(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Code == 409
}

// =============================================================================
// DOMAIN TYPES
// =============================================================================

// User is an account on the server, human or bot. Immutable once fetched;
// a re-fetch replaces the whole value.
type User struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	IsBot     bool    `json:"is_bot"`
	Icon      *string `json:"icon"`
	CreatedAt float64 `json:"created_at"`
}

// Created returns the account creation time. The server encodes timestamps
// as unix seconds with a fractional part.
func (u User) Created() time.Time {
	return unixFloat(u.CreatedAt)
}

// Chat is a named room owned by one user.
type Chat struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Owner     User    `json:"owner"`
	Icon      *string `json:"icon"`
	CreatedAt float64 `json:"created_at"`
}

// Created returns the chat creation time.
func (c Chat) Created() time.Time {
	return unixFloat(c.CreatedAt)
}

// ChatMemberPermissions is the per-member capability set within one chat.
type ChatMemberPermissions struct {
	CanWrite       bool `json:"can_write"`
	CanAddMembers  bool `json:"can_add_members"`
	CanKickMembers bool `json:"can_kick_members"`
}

// ChatMember ties a user to a chat together with their permissions.
type ChatMember struct {
	ID          int                   `json:"id"`
	User        User                  `json:"user"`
	Chat        Chat                  `json:"chat"`
	Permissions ChatMemberPermissions `json:"permissions"`
}

// ChatMessage is one message in a chat. Content is markdown; Files holds
// the stored names of any attachments previously uploaded via /files/.
type ChatMessage struct {
	ID        int      `json:"id"`
	Sender    User     `json:"sender"`
	Chat      Chat     `json:"chat"`
	Content   string   `json:"content"`
	Files     []string `json:"files"`
	CreatedAt float64  `json:"created_at"`
}

// Created returns the message creation time.
func (m ChatMessage) Created() time.Time {
	return unixFloat(m.CreatedAt)
}

// =============================================================================
// REQUEST PAYLOADS
// =============================================================================

// NewUserRequest is the body of POST /user.
type NewUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// TokenRequest is the body of POST /user/token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenData is the data half of the token endpoint's envelope. The same
// token also arrives as the api_token cookie.
type TokenData struct {
	Token string `json:"token"`
}

// NewChatRequest is the body of POST /chat. IconFile, when set, names a
// file previously stored through UploadFiles.
type NewChatRequest struct {
	Name     string  `json:"name"`
	IconFile *string `json:"icon_file"`
}

// SendMessageRequest is the body of POST /chat/{id}/message.
type SendMessageRequest struct {
	Content string   `json:"content"`
	Files   []string `json:"files"`
}

// NewBotRequest is the body of POST /bot.
type NewBotRequest struct {
	Username string `json:"username"`
}

// AddMemberRequest is the body of POST /chat/{id}/member.
type AddMemberRequest struct {
	UserID int `json:"user_id"`
}

func unixFloat(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
