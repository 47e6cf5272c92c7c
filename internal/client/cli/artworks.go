package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) List(ctx context.Context) error {

	raw, err := GetSimpleText(a.reader, "Page number (empty for 1)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	page := 1
	if raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			fmt.Fprintln(a.out, "Invalid page number")
			return fmt.Errorf("invalid page number: %q", raw)
		}
	}

	list, err := a.api.ListArtworks(ctx, page, 0)
	if err != nil {
		a.refreshLoginState(ctx)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No artworks on this page.")
		return nil
	}

	for _, item := range list {
		fmt.Fprintf(a.out, "#%d  %s  by %s  (%s)\n", item.ID, item.Title, item.Username, item.CreateTime.Format("2006-01-02"))
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {

	id, err := a.promptID("Enter artwork id to show")
	if err != nil {
		return err
	}

	artwork, err := a.api.GetArtwork(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Title:       %s\n", artwork.Title)
	fmt.Fprintf(a.out, "Author:      %s\n", artwork.Username)
	fmt.Fprintf(a.out, "Description: %s\n", artwork.Description)
	fmt.Fprintf(a.out, "Image:       %s\n", artwork.ImageURL)
	fmt.Fprintf(a.out, "Uploaded:    %s\n", artwork.CreateTime.Format("2006-01-02 15:04"))
	return nil
}

func (a *App) Upload(ctx context.Context) error {

	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	description, err := GetSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	path, err := GetSimpleText(a.reader, "Enter path to image file", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	artwork, err := a.api.UploadArtwork(ctx, title, description, path)
	if err != nil {
		a.refreshLoginState(ctx)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Uploaded #%d: %s\n", artwork.ID, artwork.ImageURL)
	return nil
}

func (a *App) Delete(ctx context.Context) error {

	id, err := a.promptID("Enter artwork id to delete")
	if err != nil {
		return err
	}

	if err := a.api.DeleteArtwork(ctx, id); err != nil {
		a.refreshLoginState(ctx)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) promptID(prompt string) (int64, error) {
	raw, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid artwork id")
		return 0, fmt.Errorf("invalid artwork id: %q", raw)
	}
	return id, nil
}
