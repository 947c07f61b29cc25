package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a nutrition document for indexing",
	Long: `Upload a PDF, DOCX or TXT document to the nutrition service so its
content can back future answers.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := newClient(cfg)

	result, err := client.Upload(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("%s: %d chunks indexed (%s)\n", result.Filename, result.ChunksProcessed, result.Status)
	return nil
}
