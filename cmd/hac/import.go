package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/config"
	"github.com/studiowebux/hac/internal/converter"
	"github.com/studiowebux/hac/internal/loader"
	"github.com/studiowebux/hac/internal/logging"
)

var importCurlCmd = &cobra.Command{
	Use:   "import-curl [curl command]",
	Short: "Add a cURL command to a collection",
	Long: `Convert a cURL command into a request and append it to a collection.

You can pipe a cURL command from stdin or provide it as an argument.
Sensitive headers (Authorization, Cookie, API keys) are masked and disabled
unless --import-headers is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Discard()

		curlCommand, err := readInput(args)
		if err != nil {
			return err
		}
		req, err := converter.CurlToRequest(curlCommand, converter.Options{
			ImportHeaders: flagImportHeaders,
			Name:          flagRequestName,
		})
		if err != nil {
			return err
		}

		path, err := appendToCollection([]collection.RequestNode{{Request: &req}})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s\n", req.Method, req.Name, path)
		return nil
	},
}

var importHARCmd = &cobra.Command{
	Use:   "import-har <file>",
	Short: "Add the requests recorded in a HAR file to a collection",
	Long: `Convert the requests of a HAR archive into one directory per host and
append them to a collection. Use --filter to keep only URLs containing a
string.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Discard()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read HAR file: %w", err)
		}
		nodes, skipped, err := converter.HARToNodes(data, flagHARFilter, converter.Options{
			ImportHeaders: flagImportHeaders,
		})
		if err != nil {
			return err
		}

		path, err := appendToCollection(nodes)
		if err != nil {
			return err
		}
		added := collection.Collection{Requests: nodes}.CountRequests()
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d requests to %s (%d skipped)\n", added, path, skipped)
		return nil
	},
}

// Flags for the import commands
var (
	flagTargetCollection string
	flagCreateCollection bool
	flagImportHeaders    bool
	flagRequestName      string
	flagHARFilter        string
)

func init() {
	for _, c := range []*cobra.Command{importCurlCmd, importHARCmd} {
		c.Flags().StringVarP(&flagTargetCollection, "collection", "c", "", "Collection name or file to append to")
		c.Flags().BoolVar(&flagCreateCollection, "create", false, "Create the collection when it does not exist")
		c.Flags().BoolVar(&flagImportHeaders, "import-headers", false, "Keep sensitive header values")
		_ = c.MarkFlagRequired("collection")
	}
	importCurlCmd.Flags().StringVarP(&flagRequestName, "name", "n", "", "Request name (default derived from the URL)")
	importHARCmd.Flags().StringVar(&flagHARFilter, "filter", "", "Only import URLs containing this string")
}

// readInput prefers piped stdin over the argument
func readInput(args []string) (string, error) {
	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice == 0 && len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("no cURL command provided (pipe it or provide as argument)")
}

// appendToCollection adds nodes at the root of the target collection and
// saves it. The collection path is returned.
func appendToCollection(nodes []collection.RequestNode) (string, error) {
	settings, err := loadSettings()
	if err != nil {
		return "", err
	}
	dir, err := config.ResolveCollectionsDir(settings)
	if err != nil {
		return "", err
	}
	l := loader.New(dir, settings.DryRun, nil)

	c, err := findCollection(l, flagTargetCollection)
	if err != nil {
		return "", err
	}

	c.Requests = append(c.Requests, nodes...)
	// the store regenerates missing or duplicate ids
	c = collection.NewStore(c).Snapshot()
	if err := l.Save(c); err != nil {
		return "", err
	}
	return c.Path, nil
}

// findCollection resolves target as a file path, then as a collection name
func findCollection(l *loader.Loader, target string) (collection.Collection, error) {
	if loader.IsCollectionFile(target) {
		if _, err := os.Stat(target); err == nil {
			return l.Load(target)
		}
	}

	metas, err := l.List()
	if err != nil {
		return collection.Collection{}, err
	}
	want := loader.SanitizeFilename(target)
	for _, m := range metas {
		if m.Name == target || m.Name == want || filepath.Base(m.Path) == target {
			return l.Load(m.Path)
		}
	}

	if !flagCreateCollection {
		return collection.Collection{}, fmt.Errorf("collection %q not found in %s (use --create)", target, l.Dir())
	}
	return l.Create(target)
}
