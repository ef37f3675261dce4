package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	var userName string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "join <townID>",
		Short: "Join a town and stream its events",
		Long: `Connect to the town's websocket endpoint and stream events in real-time.

Events include:
  - initialize: Join snapshot with your session token
  - playerMoved: A player moved
  - playerDisconnect: A player left
  - interactableUpdate: An area's state changed
  - chatMessage: A chat message in your current area
  - townSettingsUpdated: The town's settings changed
  - townClosing: The town is shutting down

The session token from the initialize event is saved so that later
town, area, and poll commands can authenticate.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return joinTown(args[0], userName, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "Display name to join with (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// TownEvent represents a received town event
type TownEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func joinTown(townID, userName string, jsonOutput bool) error {
	wsURL, err := websocketURL(cfg.ServerURL, townID, userName)
	if err != nil {
		return err
	}

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Close the connection when interrupted so the read loop unblocks
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Joined town %s as %s\n", townID, userName)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var evt struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(data, &evt); err != nil {
			continue
		}

		if evt.Event == "initialize" {
			var init struct {
				Payload struct {
					SessionToken string `json:"sessionToken"`
				} `json:"payload"`
			}
			if err := json.Unmarshal(data, &init); err == nil && init.Payload.SessionToken != "" {
				if err := cfg.SaveToken(init.Payload.SessionToken); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to save session token: %s\n", err)
				} else if !jsonOutput {
					fmt.Printf("Session token saved to %s\n", cfg.TokenFile)
				}
			}
		}

		printTownEvent(evt.Event, data, jsonOutput)
	}
}

func websocketURL(serverURL, townID, userName string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}

	u.Path = "/ws/town"
	q := url.Values{}
	q.Set("townID", townID)
	q.Set("userName", userName)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func printTownEvent(event string, data []byte, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := TownEvent{
			Time:  now,
			Event: event,
			Data:  json.RawMessage(data),
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		// Truncate data if it's too long for display
		displayData := string(data)
		if len(displayData) > 100 {
			displayData = displayData[:100] + "..."
		}
		fmt.Printf("[%s] %s: %s\n", timestamp, event, displayData)
	}
}
