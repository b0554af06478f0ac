package cli

import (
	"context"
	"fmt"
)

func (a *App) Folders(ctx context.Context) error {
	list := a.folders.List(ctx)
	if len(list) == 0 {
		printlnFn("No folders")
		return nil
	}
	for _, f := range list {
		printlnFn(fmt.Sprintf("%s  %s", f.ID, f.Name))
	}
	return nil
}

func (a *App) MakeFolder(ctx context.Context, name string) error {
	f, err := a.folders.Create(ctx, name)
	if err != nil {
		a.log.Error(ctx, "error creating folder", "error", err)
		return err
	}
	printlnFn("Created folder", f.ID)
	return nil
}

func (a *App) RemoveFolder(ctx context.Context, id string) error {
	if err := a.folders.Delete(ctx, id); err != nil {
		printlnFn("Could not delete folder:", err.Error())
		return err
	}
	printlnFn("Deleted folder", id)
	return nil
}
