package cmd

import (
	"fmt"
	"os"

	"github.com/jfmyers9/imgsrc/internal/uploader"
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/spf13/cobra"
)

var (
	uploadCreate       bool
	uploadCategory     string
	uploadPassword     string
	uploadMaxDimension int
	uploadBase64       bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <album> <file|dir>...",
	Short: "Upload photos to an album",
	Long: `Upload photos to an album, one file per request.

Directories are expanded to the JPEG files they contain, sorted by name.
Each file is tried up to upload.max_attempts times (default 3). Files
uploaded before a failure stay uploaded.

Use --create to create the album when it does not exist yet, and
--max-dimension to shrink large JPEGs before they are sent.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolVar(&uploadCreate, "create", false, "Create the album if it does not exist")
	uploadCmd.Flags().StringVar(&uploadCategory, "category", "", "Category id for a created album")
	uploadCmd.Flags().StringVar(&uploadPassword, "password", "", "Password for a created album")
	uploadCmd.Flags().IntVar(&uploadMaxDimension, "max-dimension", 0, "Resize JPEGs to fit this many pixels (0=disabled, overrides config)")
	uploadCmd.Flags().BoolVar(&uploadBase64, "base64", false, "Send files base64 encoded (overrides config)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max-dimension") {
		cfg.Upload.MaxDimension = uploadMaxDimension
	}
	if cmd.Flags().Changed("base64") {
		cfg.Upload.Base64 = uploadBase64
	}

	j, err := uploader.OpenJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	u, err := uploader.New(cmd.Context(), cfg, logger, uploader.Options{Journal: j})
	if err != nil {
		return err
	}
	if err := u.Login(cmd.Context()); err != nil {
		return err
	}

	result, err := u.Upload(cmd.Context(), uploader.UploadRequest{
		Album:  args[0],
		Paths:  args[1:],
		Create: uploadCreate,
		Options: imgsrc.AlbumOptions{
			Category: uploadCategory,
			Password: uploadPassword,
		},
	})
	if result != nil {
		fmt.Printf("Uploaded %d photos to %q\n\n", len(result.Photos), result.Album.Name)
		printAlbums(os.Stdout, []*imgsrc.Album{result.Album})
		if len(result.Photos) > 0 {
			fmt.Println()
			printPhotos(os.Stdout, result.Photos)
		}
	}

	return err
}
