package cli

import (
	"context"
	"fmt"
	"os"
)

// Comments lists the comments of a post as a flat list with parent markers.
func (a *App) Comments(ctx context.Context, postID string) error {
	comments, err := a.api.ListComments(ctx, postID)
	if err != nil {
		fmt.Println("Could not load comments:", err)
		return err
	}

	if len(comments) == 0 {
		fmt.Println("No comments yet")
		return nil
	}
	for _, c := range comments {
		author := "unknown"
		if c.User != nil {
			author = c.User.Name
		}
		text := c.Comment
		if c.IsDeleted {
			text = "(deleted)"
		}
		if c.ParentID != "" {
			fmt.Printf("  [%s] %s (reply to %s): %s\n", c.ID, author, c.ParentID, text)
		} else {
			fmt.Printf("[%s] %s: %s\n", c.ID, author, text)
		}
	}
	return nil
}

// Comment prompts for a top-level comment on the given post.
func (a *App) Comment(ctx context.Context, postID string) error {
	text, err := GetMultiline(a.reader, "Comment", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.AddComment(ctx, postID, text); err != nil {
		fmt.Println("Could not add comment:", err)
		return err
	}

	fmt.Println("Comment added")
	return nil
}

// Reply prompts for a reply to an existing comment.
func (a *App) Reply(ctx context.Context, postID, parentID string) error {
	text, err := GetMultiline(a.reader, "Reply", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.AddReply(ctx, postID, parentID, text); err != nil {
		fmt.Println("Could not add reply:", err)
		return err
	}

	fmt.Println("Reply added")
	return nil
}

// EditComment prompts for replacement text for one of the user's comments.
func (a *App) EditComment(ctx context.Context, commentID string) error {
	text, err := GetMultiline(a.reader, "New text", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.EditComment(ctx, commentID, text); err != nil {
		fmt.Println("Could not edit comment:", err)
		return err
	}

	fmt.Println("Comment updated")
	return nil
}

// DelComment deletes one of the user's comments after a confirmation prompt.
func (a *App) DelComment(ctx context.Context, commentID string) error {
	answer, err := getSimpleText(a.reader, "Delete this comment? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.api.DeleteComment(ctx, commentID); err != nil {
		fmt.Println("Could not delete comment:", err)
		return err
	}

	fmt.Println("Comment deleted")
	return nil
}
