package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPollingDispatchesAndAdvancesOffset(t *testing.T) {
	var (
		mu      sync.Mutex
		sent    []string
		offsets []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			mu.Lock()
			offsets = append(offsets, r.URL.Query().Get("offset"))
			calls := len(offsets)
			mu.Unlock()
			if calls == 1 {
				fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":" /watchlist "}}]}`)
				return
			}
			// Hold later polls open like the real long-poll endpoint.
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			mu.Lock()
			sent = append(sent, payload["text"])
			mu.Unlock()
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "chat", "")
	tn.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmds := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(cmd string) string {
			cmds <- cmd
			return "ack"
		})
		close(done)
	}()

	select {
	case cmd := <-cmds:
		assert.Equal(t, "/watchlist", cmd, "message text must be trimmed before dispatch")
	case <-time.After(2 * time.Second):
		t.Fatal("command was never dispatched")
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sent) == 1 && len(offsets) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("polling did not stop on context cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ack"}, sent)
	assert.Equal(t, "0", offsets[0])
	assert.Equal(t, "8", offsets[1], "offset must advance past the consumed update")
}

func TestStartPollingNoopWithoutCredentials(t *testing.T) {
	tn := NewTelegramNotifier("", "", "")
	done := make(chan struct{})
	go func() {
		tn.StartPolling(context.Background(), func(string) string { return "" })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("polling must return immediately without credentials")
	}
}

func TestSendPostsHTMLMessage(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/sendMessage"))
		_ = json.NewDecoder(r.Body).Decode(&payload)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "chat-42", "")
	tn.APIBase = srv.URL

	require.NoError(t, tn.Send(context.Background(), "<b>hello</b>"))
	assert.Equal(t, "chat-42", payload["chat_id"])
	assert.Equal(t, "<b>hello</b>", payload["text"])
	assert.Equal(t, "HTML", payload["parse_mode"])
}
