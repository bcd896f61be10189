package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Read and send inbox messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your inbox",
	RunE:  runMessagesListCommand,
}

var messagesSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message",
	RunE:  runMessagesSendCommand,
}

var messagesReadCmd = &cobra.Command{
	Use:   "read <message-id>",
	Short: "Mark a message as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessagesReadCommand,
}

var messagesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream incoming messages until interrupted",
	RunE:  runMessagesWatchCommand,
}

var (
	sendReceiverID  string
	sendMessageType string
	sendContent     string
	sendReplyTo     string
)

func init() {
	messagesSendCmd.Flags().StringVar(&sendReceiverID, "to", "", "Recipient user ID (required)")
	messagesSendCmd.Flags().StringVar(&sendMessageType, "type", "general", "Message type")
	messagesSendCmd.Flags().StringVar(&sendContent, "content", "", "Message body (required)")
	messagesSendCmd.Flags().StringVar(&sendReplyTo, "reply-to", "", "Parent message ID when replying")
	messagesSendCmd.MarkFlagRequired("to")
	messagesSendCmd.MarkFlagRequired("content")

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesSendCmd)
	messagesCmd.AddCommand(messagesReadCmd)
	messagesCmd.AddCommand(messagesWatchCmd)
	rootCmd.AddCommand(messagesCmd)
}

func openMessages(app *App) error {
	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	return app.OpenScreen(nav.RouteSuperAgentMessages)
}

func runMessagesListCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := openMessages(app); err != nil {
		return err
	}

	messages, err := app.API.Messages(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	if len(messages) == 0 {
		fmt.Println("Inbox is empty")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "ID\tFROM\tTYPE\tREAD\tDATE\tCONTENT")
	for _, m := range messages {
		read := " "
		if m.ReadStatus {
			read = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.SenderName, m.MessageType, read, m.CreatedAt, m.Content)
	}
	return w.Flush()
}

func runMessagesSendCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := openMessages(app); err != nil {
		return err
	}

	req := &client.SendMessageRequest{
		ReceiverID:      sendReceiverID,
		MessageType:     sendMessageType,
		Content:         sendContent,
		ParentMessageID: sendReplyTo,
	}
	if err := app.API.SendMessage(cmd.Context(), req); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	fmt.Println("Message sent")
	return nil
}

func runMessagesReadCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := openMessages(app); err != nil {
		return err
	}

	if err := app.API.MarkMessageRead(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	fmt.Println("Marked as read")
	return nil
}

func runMessagesWatchCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := openMessages(app); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream, err := app.API.StreamMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to open message stream: %w", err)
	}
	defer stream.Close()

	fmt.Println("Watching for messages; press Ctrl+C to stop")
	for {
		select {
		case msg, ok := <-stream.Messages():
			if !ok {
				return nil
			}
			fmt.Printf("[%s] %s (%s): %s\n", msg.CreatedAt, msg.SenderName, msg.MessageType, msg.Content)
		case <-ctx.Done():
			return nil
		}
	}
}
