package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "almaz", body["username"])

		json.NewEncoder(w).Encode(&Token{AccessToken: "tok", TokenType: "bearer", UserID: "u-1", Username: "almaz"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	token, err := client.Login(context.Background(), "almaz", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok", token.AccessToken)
	require.Equal(t, "u-1", token.UserID)
}

func TestBearerTokenAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]*Chat{})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	client.SetToken("tok")
	_, err := client.ListChats(context.Background())
	require.NoError(t, err)
}

func TestSendMessage(t *testing.T) {
	reply := &ChatMessage{
		ID:        "m-2",
		Role:      RoleModel,
		Text:      "Article 2472 of the Civil Code applies.",
		Timestamp: time.Now().UTC().Truncate(time.Second),
		GroundingSources: []GroundingSource{
			{Title: "Civil Code", URI: "https://example.et/civil-code"},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chats/c-1/messages", r.URL.Path)

		request := &SendMessageRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(request))
		require.Equal(t, "What about deposits?", request.Message)
		require.Equal(t, "en", request.Language)
		require.Len(t, request.Attachments, 1)
		require.Equal(t, "image", request.Attachments[0].Type)

		json.NewEncoder(w).Encode(reply)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	got, err := client.SendMessage(context.Background(), "c-1", &SendMessageRequest{
		Message:  "What about deposits?",
		Language: "en",
		Attachments: []Attachment{
			{Type: "image", MimeType: "image/png", Data: "aGk=", Name: "lease.png"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, reply.Text, got.Text)
	require.Equal(t, reply.GroundingSources, got.GroundingSources)
}

func TestErrorStatusMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chats":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
		// Failure bodies must never be interpreted.
		w.Write([]byte("<html>nope</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.ListChats(context.Background())
	require.Error(t, err)
	require.True(t, IsUnauthorized(err))

	err = client.DeleteChat(context.Background(), "gone")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
	require.False(t, IsUnauthorized(err))
}

func TestDeleteChatEscapesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chats/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	require.NoError(t, client.DeleteChat(context.Background(), "a/b"))
}
