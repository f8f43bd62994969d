package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/utils"
)

// uploadDocumentCmd represents the upload-document command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Ingest PDF documents from disk",
	Long: `Copies PDF files into the upload directory and indexes their chunks in
Weaviate. Use --file for a single document or --directory for every PDF of a
directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		directory, _ := cmd.Flags().GetString("directory")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if (file == "") == (directory == "") {
			return errors.New("exactly one of --file or --directory is required")
		}

		files := []string{file}
		if directory != "" {
			var err error
			if files, err = listPDFs(directory); err != nil {
				return err
			}
		}

		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if reinit {
			if err := a.store.ReInit(ctx); err != nil {
				return fmt.Errorf("failed to reinitialize Weaviate database: %w", err)
			}
			log.Info("reinitialized vector store")
		}

		failed := 0
		for _, source := range files {
			path, err := utils.CopyFile(source, a.files.UploadDir())
			if err != nil {
				log.Error("failed to copy document", zap.String("file", source), zap.Error(err))
				failed++
				continue
			}
			result, err := a.files.IngestFile(ctx, path)
			if err != nil {
				log.Error("failed to upload document", zap.String("file", source), zap.Error(err))
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages, %d chunks\n", result.Filename, result.DocLen, result.Chunks)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed", failed, len(files))
		}
		return nil
	},
}

// listPDFs returns the .pdf files directly inside directory.
func listPDFs(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(directory, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no PDF files in %s", directory)
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)

	uploadDocumentCmd.Flags().StringP("file", "f", "", "Path to the PDF to upload")
	uploadDocumentCmd.Flags().String("directory", "", "Path to the dir to upload")
	uploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the database")
}
