package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Reference(ctx context.Context) error
	Form(ctx context.Context) error
	Title(ctx context.Context, title string) error
	Category(ctx context.Context, name string) error
	Color(ctx context.Context, name string) error
	Upload(ctx context.Context, path string) error
	Delete(ctx context.Context, address string) error
	Save(ctx context.Context) error
	List(ctx context.Context, refresh bool) error
}

// runREPL starts a simple read–eval–print loop for the framekeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help                 show available commands
//	  - register | login     authenticate
//	  - reference            list categories, colors and dimensions
//	  - exit | quit          leave the program
//
//	Logged in, additionally:
//	  - form                 show the item form
//	  - title <text>         set the title (no text clears it)
//	  - category [name]      select a category (no name unselects)
//	  - color [name]         select a color (no name unselects)
//	  - upload <path>        upload the item image
//	  - delete [address]     delete the attached image or the given address
//	  - save                 save the item
//	  - (l)ist [refresh]     list saved items
//	  - logout
//
// Errors returned by command handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: form, title, category, color, upload, delete, save, (l)ist, reference, logout, exit")
			} else {
				printlnFn("Available commands: register, login, reference, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "reference":
			err = a.Reference(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "form", "title", "category", "color", "upload", "delete", "save", "l", "list", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			err = dispatchForm(ctx, a, cmd, args, rest)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatchForm(ctx context.Context, a execIface, cmd string, args []string, rest string) error {
	switch cmd {
	case "form":
		return a.Form(ctx)
	case "title":
		return a.Title(ctx, rest)
	case "category":
		return a.Category(ctx, firstArg(args))
	case "color":
		return a.Color(ctx, firstArg(args))
	case "upload":
		if rest == "" {
			printlnFn("Usage: upload <path>")
			return nil
		}
		return a.Upload(ctx, rest)
	case "delete":
		return a.Delete(ctx, firstArg(args))
	case "save":
		return a.Save(ctx)
	case "l", "list":
		return a.List(ctx, firstArg(args) == "refresh")
	case "logout":
		return a.Logout(ctx)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
