// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// CHAT EVENTS
// =============================================================================

// Event is one entry of the server's event feed. The wire format is a
// tagged union:
//
//	{ "type": "new_message" | "member_added" | "member_kicked", "data": {...} }
//
// Event is a closed sum: the only implementations live in this package, and
// consumers are expected to switch over the concrete types exhaustively.
type Event interface {
	event()
}

// NewMessageEvent reports a message posted to a chat the user belongs to.
type NewMessageEvent struct {
	Message ChatMessage
}

// MemberAddedEvent reports a user joining a chat.
type MemberAddedEvent struct {
	Member ChatMember
}

// MemberKickedEvent reports a user being removed from a chat.
type MemberKickedEvent struct {
	User User
	Chat Chat
}

func (NewMessageEvent) event()   {}
func (MemberAddedEvent) event()  {}
func (MemberKickedEvent) event() {}

// Wire tags of the event union.
const (
	eventNewMessage   = "new_message"
	eventMemberAdded  = "member_added"
	eventMemberKicked = "member_kicked"
)

// DecodeEvent decodes a single tagged event. Unknown tags are an error:
// the union is closed, and silently dropping a variant would hide a
// protocol change.
func DecodeEvent(raw json.RawMessage) (Event, error) {
	var head struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decoding event header: %w", err)
	}

	switch head.Type {
	case eventNewMessage:
		var msg ChatMessage
		if err := json.Unmarshal(head.Data, &msg); err != nil {
			return nil, fmt.Errorf("decoding %s event: %w", head.Type, err)
		}
		return NewMessageEvent{Message: msg}, nil

	case eventMemberAdded:
		var member ChatMember
		if err := json.Unmarshal(head.Data, &member); err != nil {
			return nil, fmt.Errorf("decoding %s event: %w", head.Type, err)
		}
		return MemberAddedEvent{Member: member}, nil

	case eventMemberKicked:
		var data struct {
			User User `json:"user"`
			Chat Chat `json:"chat"`
		}
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return nil, fmt.Errorf("decoding %s event: %w", head.Type, err)
		}
		return MemberKickedEvent{User: data.User, Chat: data.Chat}, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", head.Type)
	}
}

// DecodeEvents decodes a whole event feed payload.
func DecodeEvents(raw []json.RawMessage) ([]Event, error) {
	events := make([]Event, 0, len(raw))
	for _, entry := range raw {
		event, err := DecodeEvent(entry)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
