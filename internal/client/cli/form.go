package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/docker/go-units"

	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/client/client"
)

func (a *App) Reference(ctx context.Context) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	ref, err := a.api.Reference(callCtx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Categories:")
	for _, c := range ref.Categories {
		fmt.Fprintf(a.out, "  %-10s %s\n", c.URLParamName, c.Name)
	}
	fmt.Fprintln(a.out, "Colors:")
	for _, c := range ref.Colors {
		fmt.Fprintf(a.out, "  %-10s %s\n", c.URLParamName, c.Color)
	}
	fmt.Fprintln(a.out, "Dimensions:")
	for _, d := range ref.Dimensions {
		fmt.Fprintf(a.out, "  %s\n", d.Size)
	}
	return nil
}

func (a *App) Form(ctx context.Context) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	st, err := a.api.GetForm(callCtx)
	if err != nil {
		return err
	}
	a.printForm(st)
	return nil
}

func (a *App) update(ctx context.Context, req *api.UpdateFormRequest) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	st, err := a.api.UpdateForm(callCtx, req)
	if err != nil {
		return err
	}
	a.printForm(st)
	return nil
}

func (a *App) Title(ctx context.Context, title string) error {
	return a.update(ctx, &api.UpdateFormRequest{Title: &title})
}

func (a *App) Category(ctx context.Context, name string) error {
	return a.update(ctx, &api.UpdateFormRequest{Category: &name})
}

func (a *App) Color(ctx context.Context, name string) error {
	return a.update(ctx, &api.UpdateFormRequest{Color: &name})
}

// Upload streams the file at path to the form and prints the progress.
func (a *App) Upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	fmt.Fprintf(a.out, "Uploading %s (%s)\n", name, units.HumanSize(float64(info.Size())))

	res, err := a.api.UploadImage(ctx, client.Upload{
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Size:        info.Size(),
		Body:        f,
	}, func(p api.UploadProgress) {
		fmt.Fprintf(a.out, "\rUpload is %.0f%% done", p.Percent)
	})
	fmt.Fprintln(a.out)
	if err != nil {
		a.printAlertAfterFailure(ctx)
		return err
	}

	a.printForm(res.Form)
	return nil
}

func (a *App) Delete(ctx context.Context, address string) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	st, err := a.api.DeleteImage(callCtx, address)
	if err != nil {
		a.printAlertAfterFailure(ctx)
		return err
	}
	a.printForm(st)
	return nil
}

func (a *App) Save(ctx context.Context) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	res, err := a.api.SaveDetails(callCtx)
	if err != nil {
		a.printAlertAfterFailure(ctx)
		return err
	}
	if res.Item != nil {
		fmt.Fprintf(a.out, "Saved item %s\n", res.Item.ID)
	}
	a.printForm(&res.Form)
	return nil
}

func (a *App) List(ctx context.Context, refresh bool) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	items, err := a.api.ListItems(callCtx, refresh)
	if err != nil {
		return err
	}
	a.printItems(items)
	return nil
}

// printAlertAfterFailure shows the alert the server raised for a failed
// form operation, if it can still be fetched.
func (a *App) printAlertAfterFailure(ctx context.Context) {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	st, err := a.api.GetForm(callCtx)
	if err != nil {
		return
	}
	a.printAlert(st.Alert)
}
