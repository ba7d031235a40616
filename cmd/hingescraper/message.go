package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hingescraper/pkg/hinge"
)

// messageCmd represents the message command
var messageCmd = &cobra.Command{
	Use:   "message <subject-id> <text>",
	Short: "Send a chat message to a match",
	Long: `Send a chat message to a matched user identified by subject id.

A fresh dedup id is generated per send, so re-running the command delivers
a new message rather than being dropped as a duplicate.`,
	Example: `  hingescraper message SUBJECT "hey, how was the trip?"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runMessage,
}

func init() {
	rootCmd.AddCommand(messageCmd)
}

func runMessage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	response, err := client.SendMessage(args[0], args[1], hinge.MessageOptions{})
	if err != nil {
		return err
	}

	fmt.Println("Sent.")
	if len(response) > 0 {
		fmt.Println(string(response))
	}
	return nil
}
