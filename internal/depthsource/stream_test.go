package depthsource_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depthsource"
)

func newFeed(t *testing.T, messages ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamSource_DeliversSnapshots(t *testing.T) {
	srv := newFeed(t,
		`{"current": 5, "series": [{"price": 4, "active_liquidity": 1}, {"price": 6, "active_liquidity": 2}]}`,
		`not json`,
		`{"series": [{"price": 1, "active_liquidity": 1}]}`,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan depthsource.Snapshot)
	errc := make(chan error, 1)
	src := depthsource.NewStreamSource(wsURL(srv))
	go func() { errc <- src.Run(ctx, out) }()

	first := <-out
	assert.True(t, first.HasCurrent)
	assert.Len(t, first.Series, 2)

	second := <-out
	assert.False(t, second.HasCurrent, "malformed message is skipped")
	assert.Len(t, second.Series, 1)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestStreamSource_MaxRateCoalesces(t *testing.T) {
	var messages []string
	for n := 1; n <= 5; n++ {
		rows := make([]string, n)
		for i := range rows {
			rows[i] = fmt.Sprintf(`{"price": %d, "active_liquidity": 1}`, i)
		}
		messages = append(messages, `{"series": [`+strings.Join(rows, ",")+`]}`)
	}
	srv := newFeed(t, messages...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan depthsource.Snapshot)
	errc := make(chan error, 1)
	src := depthsource.NewStreamSource(wsURL(srv), depthsource.WithMaxRate(2))
	go func() { errc <- src.Run(ctx, out) }()

	deliveries := 0
	for {
		snap := <-out
		deliveries++
		if len(snap.Series) == 5 {
			break
		}
	}
	assert.LessOrEqual(t, deliveries, 2)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestStreamSource_GivesUpAfterAttempts(t *testing.T) {
	src := depthsource.NewStreamSource(
		"ws://127.0.0.1:1/feed",
		depthsource.WithRetry(2, time.Millisecond, time.Millisecond),
	)

	err := src.Run(context.Background(), make(chan depthsource.Snapshot))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to")
}

func TestDecodeSnapshot_RejectsNegativeLiquidity(t *testing.T) {
	_, err := depthsource.DecodeSnapshot([]byte(`{"series": [{"price": 1, "active_liquidity": -1}]}`))
	assert.Error(t, err)
}
