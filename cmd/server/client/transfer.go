package client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-api/internal/handlers/agency/v1alpha1"
	"github.com/KirkDiggler/agency-api/internal/sharelink"
)

var (
	transferID   string
	inputFile    string
	outputDir    string
	exportFormat string
	sharePayload string
	shareImport  bool
)

var importCharacterCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a character file (JSON or HTML export)",
	RunE:  runImportCharacter,
}

var exportCharacterCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a character to a file",
	RunE:  runExportCharacter,
}

var shareLinkCmd = &cobra.Command{
	Use:   "share",
	Short: "Build a share link for a character, or read one with --payload",
	RunE:  runShareLink,
}

var listCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the anomaly, reality and function catalog",
	RunE:  runListCatalog,
}

func init() {
	importCharacterCmd.Flags().StringVar(&inputFile, "file", "", "Path to the character file (required)")
	importCharacterCmd.Flags().BoolVar(&makeCurrent, "current", false, "Select the imported character")
	_ = importCharacterCmd.MarkFlagRequired("file") // nolint:errcheck // safe to ignore in init

	exportCharacterCmd.Flags().StringVar(&transferID, "id", "", "Character ID (required)")
	exportCharacterCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or html")
	exportCharacterCmd.Flags().StringVar(&outputDir, "out", ".", "Directory to write the file to")
	_ = exportCharacterCmd.MarkFlagRequired("id") // nolint:errcheck // safe to ignore in init

	shareLinkCmd.Flags().StringVar(&transferID, "id", "", "Character ID to share")
	shareLinkCmd.Flags().StringVar(&sharePayload, "payload", "", "Share payload or URL to read")
	shareLinkCmd.Flags().BoolVar(&shareImport, "import", false, "Store the shared character")
}

func runImportCharacter(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputFile, err)
	}

	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ImportCharacter(ctx, &v1alpha1.ImportCharacterRequest{Data: string(data), MakeCurrent: makeCurrent})
	if err != nil {
		return fmt.Errorf("failed to import character: %w", err)
	}
	fmt.Printf("Imported as %s\n", resp.Character.ID)
	return nil
}

func runExportCharacter(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ExportCharacter(ctx, &v1alpha1.ExportCharacterRequest{ID: transferID, Format: exportFormat})
	if err != nil {
		return fmt.Errorf("failed to export character: %w", err)
	}

	root, err := os.OpenRoot(outputDir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", outputDir, err)
	}
	defer root.Close()

	if err := root.WriteFile(resp.Filename, []byte(resp.Data), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", resp.Filename, err)
	}
	fmt.Printf("Wrote %s (%s)\n", resp.Filename, resp.ContentType)
	return nil
}

func runShareLink(_ *cobra.Command, _ []string) error {
	if (transferID == "") == (sharePayload == "") {
		return fmt.Errorf("exactly one of --id or --payload is required")
	}

	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if transferID != "" {
		resp, err := client.EncodeShareLink(ctx, &v1alpha1.CharacterIDRequest{ID: transferID})
		if err != nil {
			return fmt.Errorf("failed to build share link: %w", err)
		}
		fmt.Println(resp.URL)
		return nil
	}

	req := &v1alpha1.DecodeShareLinkRequest{Import: shareImport}
	if strings.Contains(sharePayload, sharelink.QueryParam+"=") {
		req.URL = sharePayload
	} else {
		req.Payload = sharePayload
	}
	resp, err := client.DecodeShareLink(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to read share link: %w", err)
	}
	if resp.Imported {
		fmt.Printf("Imported as %s\n", resp.Character.ID)
	}
	return printJSON(resp.Character)
}

func runListCatalog(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}
	return printJSON(resp)
}
