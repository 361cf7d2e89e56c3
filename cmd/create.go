package cmd

import (
	"fmt"
	"os"

	"github.com/jfmyers9/imgsrc/internal/uploader"
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/spf13/cobra"
)

var (
	createCategory string
	createPassword string
)

var createCmd = &cobra.Command{
	Use:   "create <album>",
	Short: "Create a new album",
	Long: `Create a new album. Fails if an album with the same name already exists.

The name is sent in windows-1251, so it must be representable in that
encoding (Latin and Cyrillic text is fine).`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&createCategory, "category", "", "Category id (see 'imgsrc categories')")
	createCmd.Flags().StringVar(&createPassword, "password", "", "Album password")
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	u, err := uploader.New(cmd.Context(), cfg, logger, uploader.Options{})
	if err != nil {
		return err
	}
	if err := u.Login(cmd.Context()); err != nil {
		return err
	}

	album, err := u.CreateAlbum(cmd.Context(), args[0], imgsrc.AlbumOptions{
		Category: createCategory,
		Password: createPassword,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created album %q (id %s)\n\n", album.Name, album.ID)
	printAlbums(os.Stdout, []*imgsrc.Album{album})
	return nil
}
