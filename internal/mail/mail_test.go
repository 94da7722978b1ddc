package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResendSender(t *testing.T, handler http.HandlerFunc) *ResendSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewResendSender("re_test", "Iron Temple <desk@irontemple.in>")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base
	return s
}

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	s := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	})

	res, err := s.Send(context.Background(), SendRequest{
		To:      []string{"owner@irontemple.in"},
		Subject: "Memberships expiring",
		HTML:    "<p>2 members</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", res.MessageID)
	assert.False(t, res.SentAt.IsZero())
	assert.Equal(t, "Iron Temple <desk@irontemple.in>", got["from"])
	assert.Equal(t, "Memberships expiring", got["subject"])
}

func TestResendSender_Errors(t *testing.T) {
	s := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	})

	_, err := s.Send(context.Background(), SendRequest{To: []string{"owner@irontemple.in"}, Subject: "x"})
	assert.Error(t, err)

	_, err = s.Send(context.Background(), SendRequest{Subject: "x"})
	assert.EqualError(t, err, "email has no recipients")
}

func TestNewSender(t *testing.T) {
	assert.IsType(t, LogSender{}, NewSender("", "desk@irontemple.in"))
	assert.IsType(t, &ResendSender{}, NewSender("re_live", "desk@irontemple.in"))

	res, err := LogSender{}.Send(context.Background(), SendRequest{To: []string{"a@b.in"}, Subject: "s"})
	require.NoError(t, err)
	assert.False(t, res.SentAt.IsZero())
}
