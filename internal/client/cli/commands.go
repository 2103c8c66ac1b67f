package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/common"
)

const timeLayout = "2006-01-02 15:04:05"

// argOrPrompt returns args[i] when present and asks for it otherwise.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) credentials(args []string) (string, string, error) {
	username, err := a.argOrPrompt(args, 0, "Username:")
	if err != nil {
		return "", "", err
	}

	pw, err := GetSecret(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	password := string(pw)
	common.WipeByteArray(pw)

	return username, password, nil
}

func (a *App) Register(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	a.stopSubscription()
	if err := a.client.Register(ctx, username, password); err != nil {
		return err
	}

	a.printf("Registered and logged in as %s\n", username)
	a.startSubscription(ctx)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		return err
	}

	a.stopSubscription()
	if err := a.client.Login(ctx, username, password); err != nil {
		return err
	}

	a.printf("Logged in as %s\n", username)
	a.startSubscription(ctx)
	return nil
}

func (a *App) Send(ctx context.Context, args []string) error {
	recipient, err := a.argOrPrompt(args, 0, "Recipient:")
	if err != nil {
		return err
	}

	content := strings.Join(args[min(1, len(args)):], " ")
	if content == "" {
		if content, err = GetSimpleText(a.reader, "Message:", a.out); err != nil {
			return err
		}
	}

	if err := a.client.SendMessage(ctx, recipient, content); err != nil {
		return err
	}
	a.println("Message sent")
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &usageError{synopsis: "history <user> [n]"}
	}
	n, err := parseLimit(args[1:])
	if err != nil {
		return &usageError{synopsis: "history <user> [n]"}
	}

	msgs, err := a.client.GetMessages(ctx, args[0], n)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		a.printf("No messages with %s\n", args[0])
		return nil
	}
	a.printMessages(msgs)
	return nil
}

func (a *App) Unread(ctx context.Context, args []string) error {
	n, err := parseLimit(args)
	if err != nil {
		return &usageError{synopsis: "unread [n]"}
	}

	msgs, err := a.client.GetUnread(ctx, n)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		a.println("No unread messages")
		return nil
	}
	a.printMessages(msgs)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Message ID:")
	if err != nil {
		return err
	}

	if err := a.client.DeleteMessage(ctx, id); err != nil {
		return err
	}
	a.println("Message deleted")
	return nil
}

// Connect resumes live events after a disconnect.
func (a *App) Connect(ctx context.Context) error {
	if !a.client.LoggedIn() {
		return client.ErrNotLoggedIn
	}
	a.startSubscription(ctx)
	a.println("Receiving live events")
	return nil
}

// Disconnect asks the server to drop every live stream of this user. The
// session stays valid.
func (a *App) Disconnect(ctx context.Context) error {
	if err := a.client.Disconnect(ctx); err != nil {
		return err
	}
	a.stopSubscription()
	a.println("Disconnected from live events (type 'connect' to resume)")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.client.LoggedIn() {
		return client.ErrNotLoggedIn
	}

	a.stopSubscription()
	if err := a.client.Disconnect(ctx); err != nil {
		a.logger.Warn(ctx, "disconnect before logout", "error", err)
	}
	if err := a.client.Logout(ctx); err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	a.println("Logged out")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.client.LoggedIn() {
		return client.ErrNotLoggedIn
	}

	answer, err := GetSimpleText(a.reader, "This deletes your account and all your messages. Type 'yes' to confirm:", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.println("Cancelled")
		return nil
	}

	a.stopSubscription()
	if err := a.client.DeleteAccount(ctx); err != nil {
		return err
	}
	a.println("Account deleted")
	return nil
}

func parseLimit(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", args[0])
	}
	return n, nil
}

func formatMessage(m *api.Message) string {
	ts := time.UnixMilli(m.Timestamp).Format(timeLayout)
	mark := ""
	if !m.Read {
		mark = " (new)"
	}
	return fmt.Sprintf("[%s] %s -> %s: %s  #%s%s", ts, m.Sender, m.Recipient, m.Content, m.ID, mark)
}

func (a *App) printMessages(msgs []*api.Message) {
	for _, m := range msgs {
		a.println(formatMessage(m))
	}
}

// describe turns client errors into text fit for the prompt.
func describe(err error) string {
	var re *client.ResultError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		return "please log in first"
	case errors.Is(err, client.ErrUnauthorized):
		return "session is no longer valid, please log in again"
	case errors.Is(err, client.ErrUnavailable):
		return "server is unreachable, try again later"
	case errors.As(err, &re):
		return re.Message
	default:
		return err.Error()
	}
}
