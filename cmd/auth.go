package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jfmyers9/imgsrc/internal/config"
	"github.com/jfmyers9/imgsrc/internal/uploader"
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/spf13/cobra"
)

var authVerify bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Save iMGSRC.RU credentials",
	Long: `Save your iMGSRC.RU login to the config file.

You will be prompted for your username and password. Only the MD5
digest of the password is stored, which is what the service expects.

With --verify the credentials are checked by logging in before they
are saved.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().BoolVar(&authVerify, "verify", true, "Log in to check the credentials before saving")
}

func runAuth(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("iMGSRC.RU Authentication")
	fmt.Println("========================")
	fmt.Println()

	if cfg.Username != "" {
		fmt.Printf("Current username: %s\n", cfg.Username)
	}

	fmt.Print("Enter your username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = cfg.Username
	}

	fmt.Print("Enter your password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	cfg.Username = username
	cfg.PasswordMD5 = imgsrc.HashPassword(password)

	if authVerify {
		fmt.Println("\nLogging in...")
		u, err := uploader.New(cmd.Context(), cfg, logger, uploader.Options{})
		if err != nil {
			return err
		}
		if err := u.Login(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Found %d albums.\n", len(u.Albums()))
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath := config.GetConfigDir()
	fmt.Printf("\n✓ Credentials saved to %s/config.yaml\n", configPath)
	fmt.Println("\nYou can now use 'imgsrc upload' to upload photos.")

	return nil
}
