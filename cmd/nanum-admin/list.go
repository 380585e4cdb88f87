package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/store"
)

func listCmd(openStore func() (store.Store, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List shares in the object store",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return runList(cmd.Context(), st)
		},
	}
	return cmd
}

func runList(ctx context.Context, st store.Store) error {
	ids, err := st.ListShares(ctx)
	if err != nil {
		return fmt.Errorf("list shares: %w", err)
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		fmt.Println("No shares stored.")
		return nil
	}

	fmt.Printf("%-12s %-30s %-10s %-10s\n", "ID", "CREATOR", "SIZE", "BLOCK")
	fmt.Printf("%-12s %-30s %-10s %-10s\n", "--", "-------", "----", "-----")
	for _, id := range ids {
		raw, err := st.GetMetadata(ctx, id)
		if err != nil {
			fmt.Printf("%-12s %-30s %-10s %-10s\n", id, "?", "?", "?")
			continue
		}
		desc, err := metadata.Unmarshal(raw)
		if err != nil {
			fmt.Printf("%-12s %-30s %-10s %-10s\n", id, "?", "?", "?")
			continue
		}

		blockSize := "-"
		if desc.HasBlockSize() {
			blockSize = humanize.Bytes(uint64(desc.BlockSize))
		}
		fmt.Printf("%-12s %-30s %-10s %-10s\n", id, desc.CreatorEmail, humanize.Bytes(uint64(desc.Size)), blockSize)
	}
	fmt.Printf("\nTotal: %d share(s)\n", len(ids))
	return nil
}
