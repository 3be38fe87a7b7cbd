package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/huda/core/sheet"
)

const checkTimeout = 30 * time.Second

type sheetCheck struct {
	name string
	rows int
	err  error
}

func (p sheetCheck) status() string {
	switch {
	case p.err == nil:
		return fmt.Sprintf("OK       %s (%d rows)", p.name, p.rows)
	case sheet.IsNotFound(p.err):
		return fmt.Sprintf("MISSING  %s", p.name)
	default:
		return fmt.Sprintf("ERROR    %s: %v", p.name, p.err)
	}
}

// conventionalSheets lists the shared sheets, the tasks sheet of every class and, given a username, its own sheets.
func conventionalSheets(username string) ([]string, error) {
	names := []string{sheet.Credentials, sheet.Courses, sheet.Events, sheet.Registration}
	for _, class := range sheet.Classes() {
		name, _ := sheet.TasksFor(class)
		names = append(names, name)
	}
	if username != "" {
		progressSheet, err := sheet.ProgressFor(username)
		if err != nil {
			return nil, err
		}
		scheduleSheet, _ := sheet.ScheduleFor(username)
		names = append(names, progressSheet, scheduleSheet)
	}
	return names, nil
}

// checkSheets reads every conventional sheet, uncached, and reports what it found.
// Missing sheets are reported but only read failures are errors.
func (cli *commandLine) checkSheets(username string) error {
	names, err := conventionalSheets(username)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	checks := make([]sheetCheck, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			rows, err := cli.store.FetchSheet(ctx, name, false)
			checks[i] = sheetCheck{name: name, rows: len(rows), err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failed bool
	for _, p := range checks {
		fmt.Fprintln(cli.out, p.status())
		if p.err != nil && !sheet.IsNotFound(p.err) {
			failed = true
		}
	}
	if failed {
		return errUnreachable
	}
	return nil
}
