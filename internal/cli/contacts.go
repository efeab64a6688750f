package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ambulance/internal/contacts"
	"ambulance/internal/wire"
)

func (a *app) contactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage emergency contacts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List emergency contacts, primary first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			all, err := contacts.NewRepository(a.client, a.log).List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(a.out, "No emergency contacts yet. Add one with 'contacts add'.")
				return nil
			}
			return printContacts(a.out, all)
		},
	}

	var addReq wire.ContactRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an emergency contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			c, err := contacts.NewRepository(a.client, a.log).Create(ctx, addReq)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s (%s).\n", c.Name, c.ID)
			return nil
		},
	}
	contactFlags(add, &addReq)

	var updateReq wire.ContactRequest
	update := &cobra.Command{
		Use:   "update <contact-id>",
		Short: "Replace an emergency contact's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := contacts.NewRepository(a.client, a.log)
			if _, err := repo.List(ctx); err != nil {
				return err
			}
			c, err := repo.Update(ctx, args[0], updateReq)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s (%s).\n", c.Name, c.ID)
			return nil
		},
	}
	contactFlags(update, &updateReq)

	remove := &cobra.Command{
		Use:     "remove <contact-id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete an emergency contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := contacts.NewRepository(a.client, a.log)
			if _, err := repo.List(ctx); err != nil {
				return err
			}
			if err := repo.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s.\n", args[0])
			return nil
		},
	}

	primary := &cobra.Command{
		Use:   "primary <contact-id>",
		Short: "Make a contact the primary emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := contacts.NewRepository(a.client, a.log)
			if _, err := repo.List(ctx); err != nil {
				return err
			}
			all, err := repo.SetPrimary(ctx, args[0])
			if err != nil {
				return err
			}
			return printContacts(a.out, all)
		},
	}

	cmd.AddCommand(list, add, update, remove, primary)
	return cmd
}

func contactFlags(cmd *cobra.Command, req *wire.ContactRequest) {
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "contact name")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Relationship, "relationship", "family", "family, friend, doctor, hospital, colleague or other")
	f.StringVar(&req.Notes, "notes", "", "optional notes")
	f.BoolVar(&req.IsPrimary, "primary", false, "make this the primary contact")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
}
