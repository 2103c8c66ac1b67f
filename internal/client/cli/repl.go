package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Unread(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register [user], login [user], help, exit"
	helpLoggedIn  = "Available commands: send <user> <text>, history <user> [n], unread [n], delete <id>, " +
		"connect, disconnect, logout, deleteaccount, help, exit"
)

// runREPL starts a simple read-eval-print loop for the chat CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches the rest as arguments. Command handlers prompt for anything
// missing on the same reader. The loop exits at end of input or when the
// user types "exit" or "quit". A failing command is reported and the loop
// carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "chat %s> ", statusFn())

		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx, args)

		case "login":
			err = a.Login(ctx, args)

		case "send":
			err = a.Send(ctx, args)

		case "history":
			err = a.History(ctx, args)

		case "unread":
			err = a.Unread(ctx, args)

		case "delete":
			err = a.Delete(ctx, args)

		case "connect":
			err = a.Connect(ctx)

		case "disconnect":
			err = a.Disconnect(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "deleteaccount":
			err = a.DeleteAccount(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(out, "Error:", describe(err))
		}

		if readErr != nil {
			return
		}
	}
}

// usageError carries the command synopsis shown to the user.
type usageError struct {
	synopsis string
}

func (e *usageError) Error() string { return "usage: " + e.synopsis }
