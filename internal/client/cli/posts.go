package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blogcli/internal/client/models"
)

// Posts lists all published posts, newest first as returned by the backend.
func (a *App) Posts(ctx context.Context) error {
	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		fmt.Println("Could not load posts:", err)
		return err
	}

	if len(posts) == 0 {
		fmt.Println("No posts yet")
		return nil
	}
	for _, p := range posts {
		author := ""
		if p.Author != nil {
			author = " by " + p.Author.Name
		}
		fmt.Printf("[%s] %s%s\n", p.Slug, p.Title, author)
	}
	return nil
}

// Read shows a single post by slug.
func (a *App) Read(ctx context.Context, slug string) error {
	post, err := a.api.GetPost(ctx, slug)
	if err != nil {
		fmt.Println("Could not load post:", err)
		return err
	}

	fmt.Println(post.Title)
	if post.Author != nil {
		fmt.Printf("by %s, %s\n", post.Author.Name, post.CreatedAt)
	}
	fmt.Println()
	fmt.Println(post.Content)
	return nil
}

// AddPost prompts for a new post and publishes it.
func (a *App) AddPost(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (optional)", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		return err
	}

	post, err := a.api.CreatePost(ctx, models.PostInput{
		Title:       title,
		Description: description,
		Category:    category,
		Content:     content,
	})
	if err != nil {
		fmt.Println("Could not publish post:", err)
		return err
	}

	fmt.Printf("Published as %s\n", post.Slug)
	return nil
}

// DelPost deletes one of the user's posts after a confirmation prompt.
func (a *App) DelPost(ctx context.Context, postID string) error {
	answer, err := getSimpleText(a.reader, "Delete this post? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.api.DeletePost(ctx, postID); err != nil {
		fmt.Println("Could not delete post:", err)
		return err
	}

	fmt.Println("Post deleted")
	return nil
}
