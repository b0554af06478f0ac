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
	New(ctx context.Context) error
	List(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Send(ctx context.Context, text string) error
	Rename(ctx context.Context, title string) error
	ToggleFavorite(ctx context.Context) error
	TogglePin(ctx context.Context) error
	Tag(ctx context.Context, tag string) error
	Untag(ctx context.Context, tag string) error
	Move(ctx context.Context, folderID string) error
	Search(ctx context.Context, query string) error
	Folders(ctx context.Context) error
	MakeFolder(ctx context.Context, name string) error
	RemoveFolder(ctx context.Context, id string) error
	Export(ctx context.Context, path string) error
	Import(ctx context.Context, path, strategy string) error
	Stats(ctx context.Context) error
	Usage(ctx context.Context) error
	SetKey(ctx context.Context, providerName string) error
	Delete(ctx context.Context) error
	Clear(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ChatVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	help                — show available commands
//	new                 — start a new conversation
//	list | l            — list conversations, newest first
//	open <id>           — switch to a conversation
//	send <text>         — send a message in the active conversation
//	rename <title>      — rename the active conversation
//	fav | pin           — toggle favorite / pinned on the active conversation
//	tag <t> | untag <t> — add or remove a tag
//	move <folder-id>    — move the active conversation into a folder
//	search <query>      — search conversation titles
//	folders             — list folders
//	mkfolder <name>     — create a folder
//	rmfolder <id>       — delete a folder (conversations are kept)
//	export <file>       — write the whole history to a JSON archive
//	import <file> [skip|replace|rename] — merge an archive (default: skip)
//	stats | usage       — conversation stats / usage analytics
//	key <provider>      — set an API key (hidden input)
//	delete              — delete the active conversation
//	clear               — delete all conversations
//	exit | quit         — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv %s> ", statusFn()))
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
			printlnFn("Available commands: new, (l)ist, open, send, rename, fav, pin, tag, untag, move,")
			printlnFn("  search, folders, mkfolder, rmfolder, export, import, stats, usage, key, delete, clear, exit")

		case "new":
			_ = a.New(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <id>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "send":
			if len(args) == 0 {
				printlnFn("Usage: send <text>")
				continue
			}
			_ = a.Send(ctx, strings.Join(args, " "))

		case "rename":
			if len(args) == 0 {
				printlnFn("Usage: rename <title>")
				continue
			}
			_ = a.Rename(ctx, strings.Join(args, " "))

		case "fav":
			_ = a.ToggleFavorite(ctx)

		case "pin":
			_ = a.TogglePin(ctx)

		case "tag":
			if len(args) == 0 {
				printlnFn("Usage: tag <tag>")
				continue
			}
			_ = a.Tag(ctx, args[0])

		case "untag":
			if len(args) == 0 {
				printlnFn("Usage: untag <tag>")
				continue
			}
			_ = a.Untag(ctx, args[0])

		case "move":
			if len(args) == 0 {
				printlnFn("Usage: move <folder-id>")
				continue
			}
			_ = a.Move(ctx, args[0])

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "folders":
			_ = a.Folders(ctx)

		case "mkfolder":
			if len(args) == 0 {
				printlnFn("Usage: mkfolder <name>")
				continue
			}
			_ = a.MakeFolder(ctx, strings.Join(args, " "))

		case "rmfolder":
			if len(args) == 0 {
				printlnFn("Usage: rmfolder <id>")
				continue
			}
			_ = a.RemoveFolder(ctx, args[0])

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <file>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "import":
			if len(args) == 0 {
				printlnFn("Usage: import <file> [skip|replace|rename]")
				continue
			}
			strategy := "skip"
			if len(args) > 1 {
				strategy = args[1]
			}
			_ = a.Import(ctx, args[0], strategy)

		case "stats":
			_ = a.Stats(ctx)

		case "usage":
			_ = a.Usage(ctx)

		case "key":
			if len(args) == 0 {
				printlnFn("Usage: key <provider>")
				continue
			}
			_ = a.SetKey(ctx, args[0])

		case "delete":
			_ = a.Delete(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
