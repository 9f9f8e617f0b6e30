package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, owner string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?owner=" + owner
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHub_DeliversOnlyToOwner(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("owner"))
	}))
	defer srv.Close()

	alice := dial(t, srv, "alice")
	defer alice.Close()
	bob := dial(t, srv, "bob")
	defer bob.Close()

	require.Eventually(t, func() bool {
		return hub.Clients("alice") == 1 && hub.Clients("bob") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), NewEvent(TransactionCreated, "alice", map[string]string{"id": "t1"}))

	_ = alice.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := alice.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"transaction:created"`)
	assert.Contains(t, string(msg), `"owner_id":"alice"`)

	_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "alice")
	}))
	defer srv.Close()

	conn := dial(t, srv, "alice")
	require.Eventually(t, func() bool { return hub.Clients("alice") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients("alice") == 0 }, time.Second, 10*time.Millisecond)
}

type fakePublisher struct {
	keys chan string
}

func (f *fakePublisher) Publish(_ context.Context, key string, _ []byte) error {
	f.keys <- key
	return nil
}

func TestKafkaNotifier_PublishesKeyedByOwner(t *testing.T) {
	pub := &fakePublisher{keys: make(chan string, 1)}
	n := NewKafkaNotifier(pub, 4, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	n.Notify(ctx, NewEvent(DepotStockUpdated, "alice", nil))

	select {
	case key := <-pub.keys:
		assert.Equal(t, "alice", key)
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}
}

func TestHub_RejectsUnlistedOrigin(t *testing.T) {
	hub := NewHub(logger.NewNop(), "https://app.example.com/")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "alice")
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://app.example.com"}})
	require.NoError(t, err)
	conn.Close()

	conn, _, err = websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.Close()
}
