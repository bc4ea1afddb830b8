package tui

import (
	"fmt"

	"github.com/studiowebux/hac/internal/app"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/router"
)

// newEffects applies the commands that reach outside a page: collection file
// operations and switching between the list and the viewer. It runs on the
// UI goroutine before the command is handed to the active page.
func newEffects(d *deps, root *router.Router) app.EffectFunc {
	return func(cmd command.Command) error {
		switch c := cmd.(type) {
		case command.SelectCollection:
			root.NavigateTo(routeCollectionViewer, c.Collection)

		case command.CreateCollection:
			created, err := d.loader.Create(c.Collection.Info.Name)
			if err != nil {
				return fmt.Errorf("failed to create collection: %w", err)
			}
			d.logger.Info("collection created", "name", created.Info.Name, "path", created.Path)
			root.NavigateTo(routeCollectionViewer, created)

		case command.RenameCollection:
			newPath, err := d.loader.Rename(c.Path, c.NewName)
			if err != nil {
				return fmt.Errorf("failed to rename collection: %w", err)
			}
			d.logger.Info("collection renamed", "from", c.Path, "to", newPath)

		case command.DeleteCollection:
			if err := d.loader.Delete(c.Path); err != nil {
				return fmt.Errorf("failed to delete collection: %w", err)
			}
			d.logger.Info("collection deleted", "path", c.Path)
		}
		return nil
	}
}
