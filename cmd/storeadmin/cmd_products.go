package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storeadmin/app/controllers"
	"github.com/shashiranjanraj/storeadmin/app/models"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalogue",
}

var (
	prodSearch   string
	prodCategory string
	prodStatus   string
	prodPage     int

	prodForm struct {
		name        string
		description string
		category    string
		price       float64
		original    float64
		stock       int
		status      string
		discount    int
		photo       string
	}
)

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with search, filters, and paging",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		pc := a.products
		if err := pc.Load(cmd.Context()); err != nil {
			return err
		}
		pc.SetSearch(prodSearch)
		pc.SetCategory(orAll(prodCategory))
		pc.SetStatus(orAll(prodStatus))
		pc.SetPage(prodPage)

		w := table()
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tORIGINAL\tSTOCK\tSTATUS\tDISCOUNT\tPROMO")
		for _, p := range pc.Visible() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%d\t%s\t%d%%\t%v\n",
				p.ID, p.Name, p.Category, p.Price, p.OriginalPrice, p.Stock, p.Status, p.Discount, p.Promo)
		}
		w.Flush()
		fmt.Printf("page %d/%d\n", pc.Page(), pc.TotalPages())
		return nil
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product (optionally with a photo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		pc := a.products
		pc.OpenAdd()
		form := controllers.ProductForm{
			Name:          prodForm.name,
			Description:   prodForm.description,
			Category:      prodForm.category,
			Price:         prodForm.price,
			OriginalPrice: prodForm.original,
			Stock:         prodForm.stock,
			Status:        prodForm.status,
			Discount:      prodForm.discount,
		}
		if prodForm.photo != "" {
			data, err := os.ReadFile(prodForm.photo)
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			form.Photo = data
			form.PhotoName = prodForm.photo
		}
		pc.SetForm(form)

		if err := pc.SubmitAdd(cmd.Context()); err != nil {
			reportFormErrors(pc.FormErrors())
			return err
		}
		fmt.Println("product created")
		return nil
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		existing, err := a.productSvc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		pc := a.products
		pc.OpenEdit(existing)
		form := pc.Form()
		applyIfSet(cmd, "name", func() { form.Name = prodForm.name })
		applyIfSet(cmd, "description", func() { form.Description = prodForm.description })
		applyIfSet(cmd, "category", func() { form.Category = prodForm.category })
		applyIfSet(cmd, "price", func() { form.Price = prodForm.price })
		applyIfSet(cmd, "original-price", func() { form.OriginalPrice = prodForm.original })
		applyIfSet(cmd, "stock", func() { form.Stock = prodForm.stock })
		applyIfSet(cmd, "status", func() { form.Status = prodForm.status })
		applyIfSet(cmd, "discount", func() { form.Discount = prodForm.discount })
		pc.SetForm(form)

		if err := pc.SubmitEdit(cmd.Context()); err != nil {
			reportFormErrors(pc.FormErrors())
			return err
		}
		fmt.Println("product updated")
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		existing, err := a.productSvc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		pc := a.products
		pc.OpenDelete(existing)
		if err := pc.ConfirmDelete(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("product deleted")
		return nil
	},
}

var productsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change a product's status",
	Long:  "Statuses: " + joinStatuses(models.ProductStatuses),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		if err := a.products.ChangeStatus(cmd.Context(), id, args[1]); err != nil {
			return err
		}
		fmt.Println("status updated")
		return nil
	},
}

var productsDiscountCmd = &cobra.Command{
	Use:   "discount <id> <percent>",
	Short: "Apply a percentage discount to one product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		percent, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid percentage %q", args[1])
		}

		updated, err := a.productSvc.ApplyDiscount(cmd.Context(), id, percent)
		if err != nil {
			return err
		}
		fmt.Printf("%s: price %.2f (was %.2f), discount %d%%, promo %v\n",
			updated.Name, updated.Price, updated.OriginalPrice, updated.Discount, updated.Promo)
		return nil
	},
}

var productsDiscountCategoryCmd = &cobra.Command{
	Use:   "discount-category <category> <percent>",
	Short: "Apply a percentage discount to every product in a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		percent, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid percentage %q", args[1])
		}

		updated, err := a.productSvc.ApplyDiscountToCategory(cmd.Context(), args[0], percent)
		if err != nil {
			return err
		}
		fmt.Printf("%d products discounted\n", len(updated))
		return nil
	},
}

func orAll(v string) string {
	if v == "" {
		return controllers.FilterAll
	}
	return v
}

func applyIfSet(cmd *cobra.Command, flag string, apply func()) {
	if cmd.Flags().Changed(flag) {
		apply()
	}
}

func reportFormErrors(errs map[string]string) {
	for field, msg := range errs {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
	}
}

func joinStatuses(statuses []string) string {
	out := ""
	for i, s := range statuses {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func init() {
	productsListCmd.Flags().StringVar(&prodSearch, "search", "", "substring match on product name")
	productsListCmd.Flags().StringVar(&prodCategory, "category", "", "exact category filter")
	productsListCmd.Flags().StringVar(&prodStatus, "status", "", "status filter")
	productsListCmd.Flags().IntVar(&prodPage, "page", 1, "page (20 per page)")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&prodForm.name, "name", "", "product name")
		c.Flags().StringVar(&prodForm.description, "description", "", "description")
		c.Flags().StringVar(&prodForm.category, "category", "", "category name")
		c.Flags().Float64Var(&prodForm.price, "price", 0, "current price")
		c.Flags().Float64Var(&prodForm.original, "original-price", 0, "original price")
		c.Flags().IntVar(&prodForm.stock, "stock", 0, "stock count")
		c.Flags().StringVar(&prodForm.status, "status", models.ProductAvailable, "status")
		c.Flags().IntVar(&prodForm.discount, "discount", 0, "discount percentage")
	}
	productsCreateCmd.Flags().StringVar(&prodForm.photo, "photo", "", "path to a photo file")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsCreateCmd)
	productsCmd.AddCommand(productsUpdateCmd)
	productsCmd.AddCommand(productsDeleteCmd)
	productsCmd.AddCommand(productsStatusCmd)
	productsCmd.AddCommand(productsDiscountCmd)
	productsCmd.AddCommand(productsDiscountCategoryCmd)
}
