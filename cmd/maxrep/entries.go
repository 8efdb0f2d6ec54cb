package maxrep

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/tracking"
)

func removeEntry[E tracking.Entry](cmd *cobra.Command, store *tracking.Store[E], load func(context.Context) error, kind, rawID string) error {
	id, err := parseInt64Arg(kind+" id", rawID)
	if err != nil {
		return err
	}
	if err := load(cmd.Context()); err != nil {
		return err
	}
	if _, err := store.Remove(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d (run `maxrep %s undo` to restore)\n", kind, id, kind)
	return nil
}

func undoEntry[E tracking.Entry](cmd *cobra.Command, store *tracking.Store[E], kind string) error {
	restored, ok, err := store.UndoLastRemove(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to undo for %s logs\n", kind)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s as %d\n", kind, restored.LogID())
	return nil
}

func existingEntry[E tracking.Entry](cmd *cobra.Command, store *tracking.Store[E], load func(context.Context) error, kind, rawID string) (int64, E, error) {
	var zero E
	id, err := parseInt64Arg(kind+" id", rawID)
	if err != nil {
		return 0, zero, err
	}
	if err := load(cmd.Context()); err != nil {
		return 0, zero, err
	}
	entry, ok := store.Get(id)
	if !ok {
		return 0, zero, fmt.Errorf("%s %d: %w", kind, id, tracking.ErrNotFound)
	}
	return id, entry, nil
}
