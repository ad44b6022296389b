package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-api/internal/handlers/agency/v1alpha1"
	"github.com/KirkDiggler/agency-api/internal/orchestrators/character"
)

var (
	updateID      string
	mutationsJSON string
	saveNow       bool
)

var updateCharacterCmd = &cobra.Command{
	Use:   "update",
	Short: "Apply mutations to a character",
	Long: `Apply a JSON list of mutations, for example:

  client update --id abc --mutations '[{"op":"set_name","value":"特工"},{"op":"add_item","item":{"name":"工牌"}}]'`,
	RunE: runUpdateCharacter,
}

func init() {
	updateCharacterCmd.Flags().StringVar(&updateID, "id", "", "Character ID (required)")
	updateCharacterCmd.Flags().StringVar(&mutationsJSON, "mutations", "", "JSON list of mutations (required)")
	updateCharacterCmd.Flags().BoolVar(&saveNow, "save", true, "Write the change immediately instead of waiting for the save interval")
	_ = updateCharacterCmd.MarkFlagRequired("id")        // nolint:errcheck // safe to ignore in init
	_ = updateCharacterCmd.MarkFlagRequired("mutations") // nolint:errcheck // safe to ignore in init
}

func runUpdateCharacter(_ *cobra.Command, _ []string) error {
	var mutations []character.Mutation
	if err := json.Unmarshal([]byte(mutationsJSON), &mutations); err != nil {
		return fmt.Errorf("invalid mutations: %w", err)
	}

	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.UpdateCharacter(ctx, &v1alpha1.UpdateCharacterRequest{ID: updateID, Mutations: mutations})
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	if saveNow && resp.Changed {
		if _, err := client.SaveCharacter(ctx, &v1alpha1.CharacterIDRequest{ID: updateID}); err != nil {
			return fmt.Errorf("failed to save character: %w", err)
		}
	}

	fmt.Printf("Changed: %v\n", resp.Changed)
	if len(resp.CreatedIDs) > 0 {
		fmt.Printf("Created IDs: %v\n", resp.CreatedIDs)
	}
	return printJSON(resp.Character)
}
