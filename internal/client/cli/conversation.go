package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/chatvault/internal/client/models"
)

func (a *App) New(ctx context.Context) error {
	c, err := a.conv.Create(ctx, "")
	if err != nil {
		a.log.Error(ctx, "error creating conversation", "error", err)
		return err
	}
	printlnFn("Created", c.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	for _, c := range a.conv.List(ctx) {
		printlnFn(formatConversation(c))
	}
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	if err := a.conv.SetCurrent(ctx, id); err != nil {
		printlnFn("No such conversation:", id)
		return err
	}
	return nil
}

func (a *App) Rename(ctx context.Context, title string) error {
	return a.withCurrent(ctx, func(id string) error {
		_, err := a.conv.Rename(ctx, id, title)
		return err
	})
}

func (a *App) ToggleFavorite(ctx context.Context) error {
	return a.withCurrent(ctx, func(id string) error {
		c, err := a.conv.ToggleFavorite(ctx, id)
		if err == nil {
			printlnFn("Favorite:", c.IsFavorite)
		}
		return err
	})
}

func (a *App) TogglePin(ctx context.Context) error {
	return a.withCurrent(ctx, func(id string) error {
		c, err := a.conv.TogglePin(ctx, id)
		if err == nil {
			printlnFn("Pinned:", c.IsPinned)
		}
		return err
	})
}

func (a *App) Tag(ctx context.Context, tag string) error {
	return a.withCurrent(ctx, func(id string) error {
		_, err := a.conv.AddTag(ctx, id, tag)
		return err
	})
}

func (a *App) Untag(ctx context.Context, tag string) error {
	return a.withCurrent(ctx, func(id string) error {
		_, err := a.conv.RemoveTag(ctx, id, tag)
		return err
	})
}

func (a *App) Move(ctx context.Context, folderID string) error {
	return a.withCurrent(ctx, func(id string) error {
		if folderID != "" {
			if _, err := a.folders.Get(ctx, folderID); err != nil {
				printlnFn("No such folder:", folderID)
				return err
			}
		}
		_, err := a.conv.MoveToFolder(ctx, id, folderID)
		return err
	})
}

func (a *App) Search(ctx context.Context, query string) error {
	matches := a.conv.Search(ctx, query)
	if len(matches) == 0 {
		printlnFn("No matches")
		return nil
	}
	for _, c := range matches {
		printlnFn(formatConversation(c))
	}
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	return a.withCurrent(ctx, func(id string) error {
		if err := a.conv.Delete(ctx, id); err != nil {
			a.log.Error(ctx, "error deleting conversation", "error", err)
			return err
		}
		printlnFn("Deleted", id)
		return nil
	})
}

func (a *App) Clear(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Delete ALL conversations? Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}
	if err := a.conv.DeleteAll(ctx); err != nil {
		a.log.Error(ctx, "error clearing conversations", "error", err)
		return err
	}
	printlnFn("All conversations deleted")
	return nil
}

// withCurrent runs fn against the active conversation, complaining when there
// is none instead of failing deeper down.
func (a *App) withCurrent(ctx context.Context, fn func(id string) error) error {
	id := a.conv.Current(ctx)
	if id == "" {
		printlnFn("No active conversation; use 'new' or 'open <id>'")
		return nil
	}
	return fn(id)
}

func formatConversation(c models.Conversation) string {
	var marks []string
	if c.IsPinned {
		marks = append(marks, "pinned")
	}
	if c.IsFavorite {
		marks = append(marks, "fav")
	}
	if len(c.Tags) > 0 {
		marks = append(marks, strings.Join(c.Tags, ","))
	}
	suffix := ""
	if len(marks) > 0 {
		suffix = " [" + strings.Join(marks, " ") + "]"
	}
	return fmt.Sprintf("%s  %-40s %3d msgs%s", c.ID, c.Title, c.MessageCount, suffix)
}
