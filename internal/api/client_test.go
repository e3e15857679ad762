// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	return client
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://chat.example.org/api")
	assert.Error(t, err)

	_, err = NewClient("://nope")
	assert.Error(t, err)
}

func TestCurrentUser_OK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user", r.URL.Path)
		w.Write([]byte(`{"ok":true,"error":null,"data":{"id":7,"username":"ana","is_bot":false,"icon":null,"created_at":1700000000.5}}`))
	})

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "ana", user.Username)
	assert.False(t, user.IsBot)
	assert.Equal(t, int64(1700000000), user.Created().Unix())
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error":{"code":401,"message":"not authenticated"},"data":null}`))
	})

	user, err := client.CurrentUser(context.Background())
	assert.Nil(t, user)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Code)
}

func TestCurrentUser_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr), "transport failures must not look server-reported")
}

func TestCurrentUser_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestToken_SetsSessionCookie(t *testing.T) {
	var sawCookie string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/token":
			var req TokenRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ana", req.Username)

			http.SetCookie(w, &http.Cookie{Name: TokenCookieName, Value: "jwt-abc", Path: "/"})
			w.Write([]byte(`{"ok":true,"error":null,"data":{"token":"jwt-abc"}}`))
		case "/user":
			if cookie, err := r.Cookie(TokenCookieName); err == nil {
				sawCookie = cookie.Value
			}
			w.Write([]byte(`{"ok":true,"error":null,"data":{"id":7,"username":"ana","is_bot":false,"icon":null,"created_at":0}}`))
		}
	})

	token, err := client.Token(context.Background(), TokenRequest{Username: "ana", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", sawCookie, "jar should replay the api_token cookie")
}

func TestMessages_QueryParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/5/messages", r.URL.Path)
		assert.Equal(t, "40", r.URL.Query().Get("limit"))
		assert.Equal(t, "80", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"ok":true,"error":null,"data":[{"id":1,"sender":{"id":7,"username":"ana","is_bot":false,"icon":null,"created_at":0},"chat":{"id":5,"name":"general","owner":{"id":7,"username":"ana","is_bot":false,"icon":null,"created_at":0},"icon":null,"created_at":0},"content":"hi","files":[],"created_at":1700000001}]}`))
	})

	messages, err := client.Messages(context.Background(), 5, 40, 80)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, "ana", messages[0].Sender.Username)
}

func TestAddMember_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/5/member", r.URL.Path)

		var req AddMemberRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 12, req.UserID)

		w.Write([]byte(`{"ok":false,"error":{"code":409,"message":"User already in chat"},"data":null}`))
	})

	_, err := client.AddMember(context.Background(), 5, 12)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestKickMember_OKWithoutData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/chat/5/member/12", r.URL.Path)
		w.Write([]byte(`{"ok":true,"error":null,"data":null}`))
	})

	err := client.KickMember(context.Background(), 5, 12)
	assert.NoError(t, err)
}

func TestBotLifecycle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /bot":
			var req NewBotRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "weatherbot", req.Username)
			w.Write([]byte(`{"ok":true,"error":null,"data":{"id":31,"username":"weatherbot","is_bot":true,"icon":null,"created_at":0}}`))
		case "POST /bot/31/token":
			w.Write([]byte(`{"ok":true,"error":null,"data":{"token":"bot-jwt"}}`))
		case "DELETE /bot/31":
			w.Write([]byte(`{"ok":true,"error":null,"data":null}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()

	bot, err := client.CreateBot(ctx, "weatherbot")
	require.NoError(t, err)
	assert.True(t, bot.IsBot)

	token, err := client.BotToken(ctx, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, "bot-jwt", token)

	assert.NoError(t, client.DeleteBot(ctx, bot.ID))
}

func TestSearchUsers_EncodesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/search", r.URL.Path)
		assert.Equal(t, "an a", r.URL.Query().Get("username"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"ok":true,"error":null,"data":[]}`))
	})

	users, err := client.SearchUsers(context.Background(), "an a", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUploadFiles_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		parts := r.MultipartForm.File["files"]
		require.Len(t, parts, 2)
		assert.Equal(t, "a.png", parts[0].Filename)
		assert.Equal(t, "b.txt", parts[1].Filename)

		w.Write([]byte(`{"ok":true,"error":null,"data":["stored-a.png","stored-b.txt"]}`))
	})

	names, err := client.UploadFiles(context.Background(), []FileUpload{
		{Name: "a.png", Reader: strings.NewReader("png-bytes")},
		{Name: "b.txt", Reader: strings.NewReader("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stored-a.png", "stored-b.txt"}, names)
}
