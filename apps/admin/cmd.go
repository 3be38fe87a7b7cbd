package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errUnreachable = errors.New("some sheets could not be read")
)

type commandLine struct {
	store  sheet.Store
	usrSvc *user.Service
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  checksheets [-username USERNAME] - read every conventional sheet, bypassing the cache")
	fmt.Fprintln(cli.out, "  checkuser -username USERNAME - show a user and their sheets")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME -name NAME [-role student|admin] [-class N] [-subjects S] [-hash] - add a user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	checkSheetsCmd := flag.NewFlagSet("checksheets", flag.ContinueOnError)
	checkSheetsUname := checkSheetsCmd.String("username", "", "Also check the progress and schedule sheets of this user.")

	checkUserCmd := flag.NewFlagSet("checkuser", flag.ContinueOnError)
	checkUserUname := checkUserCmd.String("username", "", "The user's username.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The new user's username. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The new user's full name.")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "student or admin.")
	addUserClass := addUserCmd.String("class", "", "The class of a student (1-10).")
	addUserSubjects := addUserCmd.String("subjects", "", "The subjects an admin teaches, e.g. \"3:Math|Science;4:English\".")
	addUserHash := addUserCmd.Bool("hash", false, "Store a bcrypt hash instead of the plain password.")

	for _, fs := range []*flag.FlagSet{checkSheetsCmd, checkUserCmd, addUserCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "checksheets":
		if err := checkSheetsCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.checkSheets(*checkSheetsUname)
	case "checkuser":
		if err := checkUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *checkUserUname == "" {
			checkUserCmd.Usage()
			return errHelp
		}
		return cli.checkUser(*checkUserUname)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(user.NewUser{
			Username: *addUserUname,
			Name:     *addUserName,
			Password: string(pwd),
			Role:     *addUserRole,
			Class:    *addUserClass,
			Subjects: *addUserSubjects,
			Hash:     *addUserHash,
		})
	default:
		cli.printUsage()
		return errHelp
	}
}
