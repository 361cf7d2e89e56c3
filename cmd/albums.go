package cmd

import (
	"fmt"
	"os"

	"github.com/jfmyers9/imgsrc/internal/uploader"
	"github.com/spf13/cobra"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List your albums",
	Long: `Log in and list the albums of your account with their photo
counts and modification times.`,
	Args: cobra.NoArgs,
	RunE: runAlbums,
}

func init() {
	rootCmd.AddCommand(albumsCmd)
}

func runAlbums(cmd *cobra.Command, args []string) error {
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

	albums := u.Albums()
	if len(albums) == 0 {
		fmt.Println("No albums.")
		return nil
	}

	printAlbums(os.Stdout, albums)
	return nil
}
