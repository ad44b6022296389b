package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-api/internal/handlers/agency/v1alpha1"
)

var (
	characterID string
	name        string
	makeCurrent bool
)

var createCharacterCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a character with default values",
	RunE:  runCreateCharacter,
}

var getCharacterCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a character by ID, or the current one when no ID is given",
	RunE:  runGetCharacter,
}

var listCharactersCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored characters",
	RunE:  runListCharacters,
}

var deleteCharacterCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a character",
	RunE:  runDeleteCharacter,
}

func init() {
	createCharacterCmd.Flags().StringVar(&name, "name", "", "Character name")
	createCharacterCmd.Flags().BoolVar(&makeCurrent, "current", false, "Select the new character")

	getCharacterCmd.Flags().StringVar(&characterID, "id", "", "Character ID")

	deleteCharacterCmd.Flags().StringVar(&characterID, "id", "", "Character ID (required)")
	_ = deleteCharacterCmd.MarkFlagRequired("id") // nolint:errcheck // safe to ignore in init
}

func runCreateCharacter(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.CreateCharacter(ctx, &v1alpha1.CreateCharacterRequest{Name: name, MakeCurrent: makeCurrent})
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return printJSON(resp.Character)
}

func runGetCharacter(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var resp *v1alpha1.CharacterResponse
	if characterID == "" {
		resp, err = client.GetCurrentCharacter(ctx)
	} else {
		resp, err = client.GetCharacter(ctx, &v1alpha1.CharacterIDRequest{ID: characterID})
	}
	if err != nil {
		return fmt.Errorf("failed to get character: %w", err)
	}
	return printJSON(resp.Character)
}

func runListCharacters(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ListCharacters(ctx)
	if err != nil {
		return fmt.Errorf("failed to list characters: %w", err)
	}

	fmt.Printf("Found %d characters\n\n", len(resp.Characters))
	for _, c := range resp.Characters {
		marker := " "
		if c.ID == resp.CurrentID {
			marker = "*"
		}
		displayName := c.Name
		if displayName == "" {
			displayName = "(unnamed)"
		}
		fmt.Printf("%s %s  %s  %s  updated %s\n", marker, c.ID, displayName, c.FunctionType, c.UpdatedAt)
	}
	return nil
}

func runDeleteCharacter(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createCharacterClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.DeleteCharacter(ctx, &v1alpha1.CharacterIDRequest{ID: characterID}); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	fmt.Printf("Deleted %s\n", characterID)
	return nil
}
