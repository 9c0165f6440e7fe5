package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/client"
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Manage support tickets",
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create <subject>",
	Short: "Open a support ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := cmd.Flags().GetString("body")
		requester, _ := cmd.Flags().GetString("requester")

		t, err := studio.api.CreateTicket(cmd.Context(), &client.CreateTicketRequest{
			Subject:   args[0],
			Body:      body,
			Requester: requester,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(t)
		} else {
			fmt.Printf("created ticket %s\n", t.ID)
		}
		return nil
	},
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		tickets, err := studio.api.ListTickets(cmd.Context(), status)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(tickets)
			return nil
		}
		printTicketList(tickets)
		return nil
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := studio.api.GetTicket(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(t)
			return nil
		}
		printTicketTable(t)
		return nil
	},
}

var ticketCloseCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := studio.api.CloseTicket(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("closed ticket %s\n", t.ID)
		return nil
	},
}

var ticketDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := studio.api.DeleteTicket(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted ticket %s\n", args[0])
		return nil
	},
}

func init() {
	ticketCreateCmd.Flags().String("body", "", "ticket body text")
	ticketCreateCmd.Flags().String("requester", "", "who is asking")
	ticketListCmd.Flags().String("status", "", "filter by status (open|closed)")

	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)
	ticketCmd.AddCommand(ticketCloseCmd)
	ticketCmd.AddCommand(ticketDeleteCmd)
}
