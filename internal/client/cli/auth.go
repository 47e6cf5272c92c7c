package cli

import (
	"context"
	"fmt"
)

func (a *App) Register(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	if err := a.api.Register(ctx, username, password, email); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Registration successful, you can now log in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	user, err := a.api.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	a.username = user.Username
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	a.username = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		// the session may have been wiped by an expired token
		a.refreshLoginState(ctx)
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Username: %s\n", user.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", user.Email)
	fmt.Fprintf(a.out, "Member since: %s\n", user.CreateTime.Format("2006-01-02"))
	return nil
}

// refreshLoginState re-reads the session store so the prompt reflects a
// forced logout after the server rejected the token.
func (a *App) refreshLoginState(ctx context.Context) {
	p, err := a.session.User(ctx)
	if err != nil || p == nil {
		a.username = ""
		return
	}
	a.username = p.Username
}
