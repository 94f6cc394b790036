package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storeadmin/app/controllers"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage product categories",
}

var (
	catSearch      string
	catName        string
	catDescription string
)

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		cc := a.categories
		if err := cc.Load(cmd.Context()); err != nil {
			return err
		}
		cc.SetSearch(catSearch)

		w := table()
		fmt.Fprintln(w, "ID\tNAME\tPRODUCTS\tDESCRIPTION")
		for _, c := range cc.Visible() {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", c.ID, c.Name, len(c.Products), c.Description)
		}
		w.Flush()
		return nil
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		cc := a.categories
		cc.OpenAdd()
		cc.SetForm(controllers.CategoryForm{Name: catName, Description: catDescription})

		if err := cc.SubmitAdd(cmd.Context()); err != nil {
			reportFormErrors(cc.FormErrors())
			if api.IsValidation(err) {
				return fmt.Errorf("backend rejected the category: %w", err)
			}
			return err
		}
		fmt.Println("category created")
		return nil
	},
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}

		existing, err := a.categorySvc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		cc := a.categories
		cc.OpenEdit(existing)
		form := cc.Form()
		applyIfSet(cmd, "name", func() { form.Name = catName })
		applyIfSet(cmd, "description", func() { form.Description = catDescription })
		cc.SetForm(form)

		if err := cc.SubmitEdit(cmd.Context()); err != nil {
			reportFormErrors(cc.FormErrors())
			return err
		}
		fmt.Println("category updated")
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category (refused while products are assigned)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}

		existing, err := a.categorySvc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		cc := a.categories
		cc.OpenDelete(existing)
		if err := cc.ConfirmDelete(cmd.Context()); err != nil {
			if api.IsValidation(err) {
				return fmt.Errorf("cannot delete %q: %w", existing.Name, err)
			}
			return err
		}
		fmt.Println("category deleted")
		return nil
	},
}

func init() {
	categoriesListCmd.Flags().StringVar(&catSearch, "search", "", "substring match on category name")

	for _, c := range []*cobra.Command{categoriesCreateCmd, categoriesUpdateCmd} {
		c.Flags().StringVar(&catName, "name", "", "category name")
		c.Flags().StringVar(&catDescription, "description", "", "description")
	}

	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesCreateCmd)
	categoriesCmd.AddCommand(categoriesUpdateCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)
}
