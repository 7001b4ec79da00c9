package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list {activities|categories|tags}",
		Short:     "List activities, categories or tags",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"activities", "categories", "tags"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, repo, err := openRepository()
			if err != nil {
				return err
			}
			defer conn.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			switch args[0] {
			case "activities":
				activities, err := repo.Activities()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "ACTIVITY\tCATEGORY")
				for _, a := range activities {
					fmt.Fprintf(w, "%s\t%s\n", a.Name, a.CategoryName())
				}
			case "categories":
				categories, err := repo.Categories()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "CATEGORY")
				for _, c := range categories {
					fmt.Fprintln(w, c.Name)
				}
			case "tags":
				tags, err := repo.Tags()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "TAG")
				for _, t := range tags {
					fmt.Fprintln(w, t.Name)
				}
			default:
				return fmt.Errorf("unknown list target %q, expected activities, categories or tags", args[0])
			}
			return nil
		},
	}
	return cmd
}
