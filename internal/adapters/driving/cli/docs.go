package cli

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/campus-labs/deptchat/internal/adapters/driven/config/file"
	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/logger"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage documents in the remote bucket (admin)",
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload documents to the remote bucket",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsUpload,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the remote bucket",
	RunE:  runDocsList,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <name>...",
	Short: "Delete documents from the remote bucket",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

// requireAdmin prompts for the admin password and compares it against
// ADMIN_PASS. Mutating the shared bucket is gated; listing is not.
func requireAdmin(cmd *cobra.Command) error {
	want := configfile.AdminPass()
	if want == "" {
		return fmt.Errorf("admin access not configured: set %s", configfile.EnvAdminPass)
	}

	cmd.Print("Admin password: ")
	entered, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if subtle.ConstantTimeCompare(entered, []byte(want)) != 1 {
		return errors.New("wrong password")
	}
	return nil
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	remote, err := a.remote()
	if err != nil {
		return err
	}

	if err := requireAdmin(cmd); err != nil {
		return err
	}

	catalog := a.store.CatalogStore()
	var failed bool
	for _, path := range args {
		name := filepath.Base(path)
		if !a.registry.Recognised(name) {
			logger.Warn("%v: %s", domain.ErrUnsupportedType, name)
			failed = true
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Read %s: %v", path, err)
			failed = true
			continue
		}

		if err := remote.Upload(cmd.Context(), name, data); err != nil {
			logger.Warn("Upload %s: %v", name, err)
			failed = true
			continue
		}

		url := remote.PublicURL(name)
		if err := catalog.RecordUpload(cmd.Context(), domain.UploadRecord{
			Filename:   name,
			PublicURL:  url,
			UploadedAt: time.Now().UTC(),
		}); err != nil {
			logger.Warn("Record upload %s: %v", name, err)
		}

		cmd.Printf("Uploaded %s\n  %s\n", name, url)
	}

	if failed {
		return errors.New("some uploads failed")
	}
	cmd.Println("Run 'deptchat sync' to index the new documents.")
	return nil
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	remote, err := a.remote()
	if err != nil {
		return err
	}

	files, err := remote.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing bucket: %w", err)
	}

	if len(files) == 0 {
		cmd.Println("The bucket is empty.")
		return nil
	}
	for _, f := range files {
		marker := " "
		if !a.registry.Recognised(f.Name) {
			marker = "!"
		}
		cmd.Printf("%s %-40s %8d bytes\n", marker, f.Name, f.Size)
	}
	cmd.Println("\nFiles marked '!' have unsupported extensions and are not indexed.")
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	remote, err := a.remote()
	if err != nil {
		return err
	}

	if err := requireAdmin(cmd); err != nil {
		return err
	}

	if err := remote.Delete(cmd.Context(), args); err != nil {
		return fmt.Errorf("deleting from bucket: %w", err)
	}

	catalog := a.store.CatalogStore()
	for _, name := range args {
		if err := catalog.DeleteUpload(cmd.Context(), name); err != nil {
			logger.Warn("Remove upload record %s: %v", name, err)
		}
		cmd.Printf("Deleted %s\n", name)
	}
	cmd.Println("Run 'deptchat sync' to drop the documents from the index.")
	return nil
}
