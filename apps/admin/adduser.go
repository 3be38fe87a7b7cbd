package main

import (
	"context"
	"fmt"

	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/user"
)

// addUser appends a user to the credentials sheet.
func (cli *commandLine) addUser(nu user.NewUser) error {
	usr, ack, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	if err := ack.Err(sheet.Credentials); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "added %s %q\n", usr.Role, usr.Username)
	return nil
}

// checkUser prints a user with the state of their sheets.
func (cli *commandLine) checkUser(username string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "username: %s\nname:     %s\nrole:     %s\n", usr.Username, usr.Name, usr.Role)
	if usr.IsAdmin() {
		ta := usr.Assignments()
		for _, class := range sheet.Classes() {
			if subjects := ta.For(class); len(subjects) > 0 {
				fmt.Fprintf(cli.out, "teaches:  class %s: %v\n", class, subjects)
			}
		}
		return nil
	}

	fmt.Fprintf(cli.out, "class:    %s\n", usr.Class)
	progressSheet, _ := sheet.ProgressFor(usr.Username)
	scheduleSheet, _ := sheet.ScheduleFor(usr.Username)
	names := []string{progressSheet, scheduleSheet}
	if tasksSheet, err := sheet.TasksFor(usr.Class); err == nil {
		names = append(names, tasksSheet)
	}
	for _, name := range names {
		rows, err := cli.store.FetchSheet(ctx, name, false)
		fmt.Fprintln(cli.out, sheetCheck{name: name, rows: len(rows), err: err}.status())
	}
	return nil
}
