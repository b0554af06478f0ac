package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatvault/internal/client/archive"
)

func (a *App) Export(ctx context.Context, path string) error {
	if err := a.archive.ExportToFile(ctx, path); err != nil {
		a.log.Error(ctx, "export failed", "path", path, "error", err)
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn("Exported to", path)
	return nil
}

func (a *App) Import(ctx context.Context, path, strategy string) error {
	var s archive.Strategy
	switch strategy {
	case "skip":
		s = archive.StrategySkip
	case "replace":
		s = archive.StrategyReplace
	case "rename":
		s = archive.StrategyRename
	default:
		printlnFn("Unknown strategy:", strategy, "(use skip, replace, or rename)")
		return nil
	}

	res, err := a.archive.ImportFromFile(ctx, path, s)
	if err != nil {
		a.log.Error(ctx, "import failed", "path", path, "error", err)
		printlnFn("Import failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Imported %d, skipped %d, replaced %d, renamed %d",
		res.Imported, res.Skipped, res.Replaced, res.Renamed))
	return nil
}
