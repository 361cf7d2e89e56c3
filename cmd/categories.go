package cmd

import (
	"os"

	"github.com/jfmyers9/imgsrc/internal/uploader"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List album categories",
	Long: `List the album categories known to the service. Use the id with
'imgsrc create --category'.`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	u, err := uploader.New(cmd.Context(), cfg, logger, uploader.Options{})
	if err != nil {
		return err
	}

	cats, err := u.Categories(cmd.Context())
	if err != nil {
		return err
	}

	printCategories(os.Stdout, cats)
	return nil
}
