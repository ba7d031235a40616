package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hingescraper/pkg/hinge"
)

var (
	likeComment    string
	likeContentID  string
	likeQuestionID string
)

// likeCmd represents the like command
var likeCmd = &cobra.Command{
	Use:   "like <subject-id> <rating-token>",
	Short: "Like a profile",
	Long: `Like a profile using its subject id and the rating token from the
cycle that returned it (both are recorded in the scrape store's
interaction_data).

The like can carry a plain comment, target a specific photo (--content-id)
or answer a specific prompt (--question-id). Photo and prompt targets are
mutually exclusive; either can carry the comment text.`,
	Example: `  # Plain like with a comment
  hingescraper like SUBJECT TOKEN --comment "nice dog!"

  # Like a specific photo
  hingescraper like SUBJECT TOKEN --content-id CONTENT --comment "great view"

  # Reply to a prompt
  hingescraper like SUBJECT TOKEN --question-id QUESTION --comment "same!"`,
	Args: cobra.ExactArgs(2),
	RunE: runLike,
}

func init() {
	rootCmd.AddCommand(likeCmd)

	likeCmd.Flags().StringVar(&likeComment, "comment", "", "comment text to attach")
	likeCmd.Flags().StringVar(&likeContentID, "content-id", "", "photo content id to like")
	likeCmd.Flags().StringVar(&likeQuestionID, "question-id", "", "prompt question id to reply to")
	likeCmd.MarkFlagsMutuallyExclusive("content-id", "question-id")
}

func runLike(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	var content *hinge.LikeContent
	switch {
	case likeContentID != "":
		content = hinge.PhotoContent(likeContentID, likeComment)
	case likeQuestionID != "":
		content = hinge.PromptContent(likeQuestionID, likeComment)
	case likeComment != "":
		content = hinge.CommentContent(likeComment)
	}

	response, err := client.LikeProfile(hinge.LikeOptions{
		SubjectID:   args[0],
		RatingToken: args[1],
		Content:     content,
	})
	if err != nil {
		return err
	}

	fmt.Println("Liked.")
	if len(response) > 0 {
		fmt.Println(string(response))
	}
	return nil
}
