package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nanum-dev/nanum/internal/store"
)

func deleteCmd(openStore func() (store.Store, error)) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete shares and all their blocks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return runDelete(cmd.Context(), st, args, yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Delete without interactive confirmation")
	return cmd
}

func runDelete(ctx context.Context, st store.Store, ids []string, yes bool) error {
	if !yes {
		var confirmed bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d share(s)? This cannot be undone.", len(ids))).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		)).Run()
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	for _, id := range ids {
		if err := st.DeleteShare(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		fmt.Printf("Deleted %s\n", id)
	}
	return nil
}
