package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vinyldeck/vinyldeck/pkg/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the track catalog and crates",
}

func openCatalog(libraryDir string) (*library.Catalog, func() error, error) {
	store, err := library.OpenStore(library.StoreOptions{Dir: filepath.Join(libraryDir, "catalog")})
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	return library.NewCatalog(store), store.Close, nil
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <source-uri>",
	Short: "Add a track to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		cat, closeFn, err := openCatalog(cfg.LibraryDir)
		if err != nil {
			return err
		}
		defer closeFn()

		artist, _ := cmd.Flags().GetString("artist")
		title, _ := cmd.Flags().GetString("title")
		importerPath, _ := cmd.Flags().GetString("importer")

		entry, err := cat.Put(context.Background(), library.CatalogEntry{
			ArtistHint:   artist,
			TitleHint:    title,
			SourceURI:    args[0],
			ImporterPath: importerPath,
		})
		if err != nil {
			return err
		}
		fmt.Println(entry.ID)
		return nil
	},
}

var libraryFindCmd = &cobra.Command{
	Use:   "find <jq-expression>",
	Short: "Query the catalog with a jq expression, e.g. '.ArtistHint == \"Daft Punk\"'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		cat, closeFn, err := openCatalog(cfg.LibraryDir)
		if err != nil {
			return err
		}
		defer closeFn()

		matches, err := cat.Find(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Printf("%s  %s — %s  (%s)\n", m.ID, m.ArtistHint, m.TitleHint, m.SourceURI)
		}
		return nil
	},
}

var libraryCrateCmd = &cobra.Command{
	Use:   "crate <crate-file>",
	Short: "List the catalog entries a crate file resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		cat, closeFn, err := openCatalog(cfg.LibraryDir)
		if err != nil {
			return err
		}
		defer closeFn()

		cr, err := library.LoadCrate(args[0])
		if err != nil {
			return err
		}
		entries, err := cr.Resolve(context.Background(), cat)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d tracks)\n", cr.Name, len(entries))
		for _, e := range entries {
			fmt.Printf("  %s — %s\n", e.ArtistHint, e.TitleHint)
		}
		return nil
	},
}

func init() {
	libraryAddCmd.Flags().String("artist", "", "artist hint")
	libraryAddCmd.Flags().String("title", "", "title hint")
	libraryAddCmd.Flags().String("importer", "", "importer path for this source")

	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryFindCmd)
	libraryCmd.AddCommand(libraryCrateCmd)
	rootCmd.AddCommand(libraryCmd)
}
