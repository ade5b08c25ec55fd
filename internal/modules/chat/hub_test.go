package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"eventgenie/internal/domain"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSocketPair dials a throwaway httptest server and hands back both ends
// of one websocket connection.
func newSocketPair(t *testing.T) (server, peer *gorillaws.Conn) {
	t.Helper()

	serverCh := make(chan *gorillaws.Conn, 1)
	up := gorillaws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peerConn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = peerConn.Close() })

	return <-serverCh, peerConn
}

// gorilla/websocket panics on overlapping writers, so event fan-out and the
// keepalive ticker have to share one lock per connection.
func TestHub_ConcurrentEventAndPingWrites(t *testing.T) {
	hub := NewHub()
	serverConn, peer := newSocketPair(t)

	key := ClientKey{Role: domain.RoleParticipantCustomer, UserID: 1}
	cl := hub.Register(key, serverConn)
	require.True(t, hub.IsOnline(key))

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			if _, _, err := peer.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.SendTo(key, NewPongEvent())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = cl.ping()
			}
		}()
	}
	wg.Wait()

	hub.Unregister(key)
	<-drained
	assert.False(t, hub.IsOnline(key))
	assert.Equal(t, 0, hub.OnlineCount())
}

func TestHub_BroadcastReachesConnectedParticipants(t *testing.T) {
	hub := NewHub()
	serverConn, peer := newSocketPair(t)

	customer := ClientKey{Role: domain.RoleParticipantCustomer, UserID: 7}
	hub.Register(customer, serverConn)

	participants := []domain.Participant{
		{Role: domain.RoleParticipantCustomer, UserID: 7},
		{Role: domain.RoleParticipantVendor, UserID: 7}, // not connected
	}
	hub.Broadcast(participants, NewPongEvent())

	var got map[string]interface{}
	require.NoError(t, peer.ReadJSON(&got))
	assert.Equal(t, "pong", got["type"])

	hub.Close()
	assert.Equal(t, 0, hub.OnlineCount())
}
