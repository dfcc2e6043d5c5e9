package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	if !cli.sessions.Login(ctx, email, pwd) {
		return errLoginFailed
	}
	usr, _ := cli.sessions.User()
	fmt.Fprintf(cli.out, "Signed in as %s (%s)\n", usr.Username, usr.Role)
	return nil
}

func (cli *commandLine) register(ctx context.Context, email, pwd, uname, role string) error {
	if !cli.sessions.Signup(ctx, email, pwd, uname, role) {
		return errSignupFailed
	}
	usr, _ := cli.sessions.User()
	fmt.Fprintf(cli.out, "Welcome, %s! You are signed in as a %s.\n", usr.Username, usr.Role)
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	usr, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", usr.Username, usr.Email, usr.Role)
	return nil
}
