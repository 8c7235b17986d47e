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
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Posts(ctx context.Context) error
	Read(ctx context.Context, slug string) error
	AddPost(ctx context.Context) error
	DelPost(ctx context.Context, postID string) error
	Comments(ctx context.Context, postID string) error
	Comment(ctx context.Context, postID string) error
	Reply(ctx context.Context, postID, parentID string) error
	EditComment(ctx context.Context, commentID string) error
	DelComment(ctx context.Context, commentID string) error
}

// runREPL starts a simple read–eval–print loop for the blog CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Always available:
//	  - help                      — show available commands
//	  - posts                     — list posts
//	  - read <slug>               — show a single post
//	  - comments <post-id>        — list comments for a post
//	  - exit | quit               — leave the program
//
//	Not logged in:
//	  - register                  — create an account
//	  - login                     — authenticate
//
//	Logged in:
//	  - whoami                    — show the current profile
//	  - addpost                   — publish a new post
//	  - delpost <post-id>         — delete one of your posts
//	  - comment <post-id>         — comment on a post
//	  - reply <post-id> <parent>  — reply to a comment
//	  - editcomment <comment-id>  — edit one of your comments
//	  - delcomment <comment-id>   — delete one of your comments
//	  - logout                    — log out
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("blog %s > ", statusFn()))
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

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: posts, read <slug>, addpost, delpost <post>, comments <post>, comment <post>, reply <post> <parent>, editcomment <comment>, delcomment <comment>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: posts, read <slug>, comments <post>, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "posts":
			_ = a.Posts(ctx)

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <slug>")
				continue
			}
			_ = a.Read(ctx, args[0])

		case "addpost":
			_ = a.AddPost(ctx)

		case "delpost":
			if len(args) == 0 {
				printlnFn("Usage: delpost <post-id>")
				continue
			}
			_ = a.DelPost(ctx, args[0])

		case "comments":
			if len(args) == 0 {
				printlnFn("Usage: comments <post-id>")
				continue
			}
			_ = a.Comments(ctx, args[0])

		case "comment":
			if len(args) == 0 {
				printlnFn("Usage: comment <post-id>")
				continue
			}
			_ = a.Comment(ctx, args[0])

		case "reply":
			if len(args) < 2 {
				printlnFn("Usage: reply <post-id> <parent-comment-id>")
				continue
			}
			_ = a.Reply(ctx, args[0], args[1])

		case "editcomment":
			if len(args) == 0 {
				printlnFn("Usage: editcomment <comment-id>")
				continue
			}
			_ = a.EditComment(ctx, args[0])

		case "delcomment":
			if len(args) == 0 {
				printlnFn("Usage: delcomment <comment-id>")
				continue
			}
			_ = a.DelComment(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
