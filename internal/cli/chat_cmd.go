package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/cli/formatter"
	"github.com/alexanderramin/linimasa/internal/llm"
	"github.com/spf13/cobra"
)

// renderWidth is the glamour wrap width for one-shot CLI output.
const renderWidth = 80

func newChatCmd(app *App) *cobra.Command {
	var roomID, title, attach string
	var render bool

	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Ask the assistant about the board",
		Long: "Send one message to the assistant and stream the reply. Without a message,\n" +
			"print the history of --room. Without --room a new conversation is started.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store := rt.Chat.Store()
			out := cmd.OutOrStdout()
			text := strings.TrimSpace(strings.Join(args, " "))

			if text == "" && attach == "" {
				if roomID == "" {
					return errors.New("nothing to send: give a message or --room to show history")
				}
				msgs, err := store.Messages(ctx, roomID)
				if err != nil {
					return roomHint(err)
				}
				md := &formatter.MarkdownRenderer{}
				now := time.Now()
				for _, block := range formatter.FormatTranscript(msgs, md, renderWidth, now) {
					fmt.Fprintln(out, block)
					fmt.Fprintln(out)
				}
				return nil
			}

			if roomID == "" {
				room, err := store.CreateRoom(ctx, title)
				if err != nil {
					return err
				}
				roomID = room.ID
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("room "+room.ID))
			}

			draft := chat.Draft{Text: text}
			if attach != "" {
				a, err := attachmentFromFile(attach)
				if err != nil {
					return err
				}
				draft.Attachment = a
			}

			var onChunk llm.ChunkFunc
			stop := func() {}
			if render {
				if app.interactive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "lini is thinking...")
				}
			} else {
				onChunk = func(chunk string) error {
					_, err := io.WriteString(out, chunk)
					return err
				}
			}

			reply, err := rt.Chat.SendDraft(ctx, roomID, draft, onChunk)
			stop()
			if err != nil {
				return roomHint(err)
			}
			if render {
				md := &formatter.MarkdownRenderer{}
				fmt.Fprintln(out, md.Render(reply.Content, renderWidth))
				return nil
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room", "", "Continue an existing conversation")
	cmd.Flags().StringVar(&title, "title", "", "Title for a new conversation")
	cmd.Flags().StringVar(&attach, "attach", "", "Attach a file; its name, type and size are shared with the assistant")
	cmd.Flags().BoolVar(&render, "render", false, "Render the reply as markdown instead of streaming raw text")

	cmd.AddCommand(&cobra.Command{
		Use:   "rooms",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime()
			if err != nil {
				return err
			}
			rooms, err := rt.Chat.Store().ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRoomList(rooms, time.Now()))
			return nil
		},
	})
	return cmd
}

// attachmentFromFile describes a local file without reading its content.
func attachmentFromFile(path string) (*chat.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("attachment: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("attachment: %s is a directory", path)
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return &chat.Attachment{Name: filepath.Base(path), MediaType: mediaType, Size: info.Size()}, nil
}

func roomHint(err error) error {
	if chat.IsRoomNotFound(err) {
		return fmt.Errorf("%w (set [chat] database in config.toml to keep conversations between runs)", err)
	}
	if errors.Is(err, llm.ErrDisabled) {
		return fmt.Errorf("%w (enable it with [llm] enabled = true or LINIMASA_LLM_ENABLED=true)", err)
	}
	return err
}
