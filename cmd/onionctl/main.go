// Command onionctl talks the controller interface's text dialect to a
// running oniond, over its UNIX socket or Windows named pipe.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"github.com/urfave/cli"
)

func printErr(msg string, args ...interface{}) {
	os.Stderr.WriteString(fmt.Sprintf(msg, args...) + "\n")
}

func printFatal(msg string, args ...interface{}) {
	printErr(msg, args...)
	os.Exit(1)
}

func main() {
	color.Output = colorable.NewColorableStdout()
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	app := cli.NewApp()
	app.Name = "onionctl"
	app.Usage = "talk to a running oniond over its controller interface"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "socket", Value: defaultSocketPath(), Usage: "path to the control socket"},
		cli.StringFlag{Name: "password", Usage: "AUTHENTICATE with this password instead of the cookie file"},
	}
	app.Commands = []cli.Command{
		{
			Name:   "authenticate",
			Usage:  "authenticate and print PROTOCOLINFO",
			Action: authenticateCommand,
		},
		{
			Name:      "getinfo",
			Usage:     "GETINFO one or more keys",
			ArgsUsage: "key [key...]",
			Action:    getinfoCommand,
		},
		{
			Name:      "setconf",
			Usage:     "SETCONF key=value [key=value...]",
			ArgsUsage: "key=value [key=value...]",
			Action:    setconfCommand,
		},
		{
			Name:      "signal",
			Usage:     "send a SIGNAL",
			ArgsUsage: "RELOAD|SHUTDOWN|DUMP|...",
			Action:    signalCommand,
		},
		{
			Name:   "watch",
			Usage:  "SETEVENTS and print events as they arrive",
			Action: watchCommand,
		},
		{
			Name:   "cookie",
			Usage:  "copy the control_auth_cookie path to the clipboard",
			Action: cookieCommand,
		},
		{
			Name:   "monitor",
			Usage:  "open the node's status page in a browser, if configured",
			Action: monitorCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		printFatal(err.Error())
	}
}

func defaultSocketPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oniond/control.sock"
	}
	return home + "/.oniond/control.sock"
}

func dial(c *cli.Context) (net.Conn, *bufio.Reader, error) {
	conn, err := net.Dial("unix", c.GlobalString("socket"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", c.GlobalString("socket"), err)
	}
	return conn, bufio.NewReader(conn), nil
}

// readReply reads one (possibly multi-line) reply and returns its lines
// with the "CODE-" / "CODE " / "CODE+" prefix stripped.
func readReply(r *bufio.Reader) ([]string, int, error) {
	var lines []string
	code := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return lines, code, err
		}
		if len(line) < 4 {
			continue
		}
		fmt.Sscanf(line[:3], "%d", &code)
		sep := line[3]
		lines = append(lines, line[4:len(line)-2])
		if sep == ' ' {
			return lines, code, nil
		}
	}
}
