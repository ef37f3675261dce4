package e2e_test

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/townsquare-go/internal/api"
	"github.com/mcoot/townsquare-go/internal/factory"
	"github.com/mcoot/townsquare-go/internal/services/video"
)

func startDebugServer(t *testing.T) *testServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	app, err := factory.New(factory.Config{
		VideoConfig: video.Config{
			SigningSecret: "e2e-test-secret",
			TokenTTL:      time.Hour,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Registry:       app.Registry,
		GatewayHandler: app.GatewayHandler,
	})

	server := &http.Server{Addr: addr, Handler: router}
	go func() { _ = server.ListenAndServe() }()
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")
	return &testServer{server: server, addr: serverURL}
}

func TestZZDiag_Chat(t *testing.T) {
	ts := startDebugServer(t)

	cli := newCLIRunner(t, ts.addr)
	output, err := cli.run("town", "create", "--name", "Diag Town")
	require.NoError(t, err, "output: %s", output)
	var created townCreatedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	alice := joinTown(t, ts.addr, created.TownID, "alice")
	defer alice.close()
	bob := joinTown(t, ts.addr, created.TownID, "bob")
	defer bob.close()

	bob.send(t, "playerMovement", map[string]any{
		"x": 100.0, "y": 200.0, "rotation": "front", "moving": true,
	})
	alice.send(t, "playerMovement", map[string]any{
		"x": 120.0, "y": 210.0, "rotation": "front", "moving": false,
	})
	bob.send(t, "chatMessage", map[string]any{
		"sid": "msg-1", "body": "hello lounge", "interactableId": "Lounge",
	})

	require.NoError(t, alice.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := alice.conn.ReadMessage()
		if err != nil {
			t.Logf("alice read ended: %v", err)
			break
		}
		t.Logf("alice got frame: %s", data)
	}
}
