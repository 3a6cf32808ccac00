package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"resultboard/internal/entry"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	prefix string
	out    io.Writer
}

// markFlags collects repeated -mark CODE=VALUE flags.
type markFlags map[string]string

func (m markFlags) String() string { return fmt.Sprint(map[string]string(m)) }

func (m markFlags) Set(v string) error {
	code, mark, ok := strings.Cut(v, "=")
	if !ok || code == "" {
		return fmt.Errorf("mark must be of form CODE=VALUE (got %q)", v)
	}
	m[code] = mark
	return nil
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  add -file FILE -seat NNN -sgpa SGPA [-mark CODE=VALUE ...] - add or replace a student")
	fmt.Fprintln(cli.out, "  show -file FILE - list stored students")
	fmt.Fprintln(cli.out, "  export -file FILE -out OUT.csv|OUT.xlsx - export the students as a table")
	fmt.Fprintln(cli.out, "Subject codes:")
	for _, s := range entry.Subjects {
		fmt.Fprintf(cli.out, "  %s - %s\n", s.Code, s.Name)
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
	addCmd.SetOutput(cli.out)
	addFile := addCmd.String("file", "students.json", "The session file. Created when missing.")
	addSeat := addCmd.String("seat", "", "The last 3 digits of the seat number.")
	addSGPA := addCmd.String("sgpa", "", "The student's SGPA.")
	addMarks := markFlags{}
	addCmd.Var(addMarks, "mark", "A subject mark as CODE=VALUE. Repeatable.")

	showCmd := flag.NewFlagSet("show", flag.ContinueOnError)
	showCmd.SetOutput(cli.out)
	showFile := showCmd.String("file", "students.json", "The session file.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportFile := exportCmd.String("file", "students.json", "The session file.")
	exportOut := exportCmd.String("out", "", "The output file; .csv or .xlsx.")

	switch args[1] {
	case "add":
		if err := addCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.add(*addFile, entry.Input{SeatSuffix: *addSeat, SGPA: *addSGPA, Marks: addMarks})
	case "show":
		if err := showCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.show(*showFile)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportFile, *exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) open(path string, mustExist bool) (*entry.Session, error) {
	session := entry.NewSession(cli.prefix)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !mustExist {
		return session, nil
	}
	if err := session.Load(path); err != nil {
		return nil, err
	}
	return session, nil
}

func (cli *commandLine) add(path string, in entry.Input) error {
	session, err := cli.open(path, false)
	if err != nil {
		return err
	}
	seat, err := session.Add(in)
	if err != nil {
		return err
	}
	if err := session.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Data saved for %s\n", seat)
	return nil
}

func (cli *commandLine) show(path string) error {
	session, err := cli.open(path, true)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Seat Number\tSGPA\tMarks")
	for _, row := range session.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row[0], row[1], strings.Join(row[2:], " "))
	}
	return tw.Flush()
}

func (cli *commandLine) export(path, out string) error {
	session, err := cli.open(path, true)
	if err != nil {
		return err
	}

	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(out)) {
	case ".csv":
		write = session.ExportCSV
	case ".xlsx":
		write = session.ExportXLSX
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(out))
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Data exported to %s\n", out)
	return nil
}
