package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"task_tracker/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func NewWatchCommand() *cobra.Command {
	var (
		server string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream task changes from a running server",
		Long: `Connect to the live feed of a running server and print one line per change.

Example:
  tasktracker watch --url ws://127.0.0.1:8080/ws/tasks
  tasktracker watch --token "$(tasktracker token -s alice)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, server, token, cmd.OutOrStdout())
		},
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	cmd.Flags().StringVar(&server, "url", "ws://127.0.0.1:8080/ws/tasks", "feed URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token, when the server requires one")

	return cmd
}

func watch(ctx context.Context, server, token string, out io.Writer) error {
	u, err := url.Parse(server)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", server, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if err := printMessage(out, msg); err != nil {
			return err
		}
	}
}

func printMessage(out io.Writer, msg ws.Message) error {
	if msg.Type == ws.MsgReady {
		_, err := fmt.Fprintln(out, "connected")
		return err
	}

	line := fmt.Sprintf("%s %s #%d", msg.At.Format("15:04:05"), msg.Type, msg.TaskID)
	if msg.Task != nil {
		state := " "
		if msg.Task.Completed {
			state = "x"
		}
		line += fmt.Sprintf(" [%s] %s", state, msg.Task.Title)
	}
	_, err := fmt.Fprintln(out, line)
	return err
}
