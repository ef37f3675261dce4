package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAreaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Interactable area commands (require a session token from join)",
	}

	cmd.AddCommand(newAreaConversationCmd())
	cmd.AddCommand(newAreaViewingCmd())
	cmd.AddCommand(newAreaPosterCmd())
	cmd.AddCommand(newAreaStarCmd())
	cmd.AddCommand(newAreaImageCmd())

	return cmd
}

func newAreaConversationCmd() *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "conversation <townID> <areaID>",
		Short: "Activate a conversation area with a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"id":    args[1],
				"topic": topic,
			}

			path := fmt.Sprintf("/api/v1/towns/%s/conversationArea", args[0])
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Activated conversation area %s", args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Conversation topic (required)")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func newAreaViewingCmd() *cobra.Command {
	var video string

	cmd := &cobra.Command{
		Use:   "viewing <townID> <areaID>",
		Short: "Activate a viewing area with a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"id":    args[1],
				"video": video,
			}

			path := fmt.Sprintf("/api/v1/towns/%s/viewingArea", args[0])
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Activated viewing area %s", args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&video, "video", "", "Video URL (required)")
	_ = cmd.MarkFlagRequired("video")

	return cmd
}

func newAreaPosterCmd() *cobra.Command {
	var title string
	var imageFile string

	cmd := &cobra.Command{
		Use:   "poster <townID> <areaID>",
		Short: "Activate a poster session area with an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := os.ReadFile(imageFile)
			if err != nil {
				return fmt.Errorf("failed to read image file: %w", err)
			}

			req := map[string]string{
				"id":            args[1],
				"title":         title,
				"imageContents": string(contents),
			}

			path := fmt.Sprintf("/api/v1/towns/%s/posterSessionArea", args[0])
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Activated poster session area %s", args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Poster title (required)")
	cmd.Flags().StringVar(&imageFile, "image-file", "", "File holding the encoded poster image (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("image-file")

	return cmd
}

func newAreaStarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "star <townID> <areaID>",
		Short: "Star a poster session area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StarsResult

			path := fmt.Sprintf("/api/v1/towns/%s/posterSessionArea/%s/stars", args[0], args[1])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAreaImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <townID> <areaID>",
		Short: "Fetch a poster session area's image contents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ImageResult

			path := fmt.Sprintf("/api/v1/towns/%s/posterSessionArea/%s/imageContents", args[0], args[1])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
