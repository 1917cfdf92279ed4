package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/urfave/cli"
)

func sendLine(c *cli.Context, line string) ([]string, int, error) {
	conn, r, err := dial(c)
	if err != nil {
		return nil, 0, err
	}
	defer conn.Close()

	if pw := c.GlobalString("password"); pw != "" {
		if _, _, err := writeAndRead(conn, r, `AUTHENTICATE "`+pw+`"`); err != nil {
			return nil, 0, err
		}
	} else if cookie, err := loadCookie(c); err == nil {
		if _, _, err := writeAndRead(conn, r, "AUTHENTICATE "+hex.EncodeToString(cookie)); err != nil {
			return nil, 0, err
		}
	}
	return writeAndRead(conn, r, line)
}

func writeAndRead(conn net.Conn, r *bufio.Reader, line string) ([]string, int, error) {
	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		return nil, 0, err
	}
	return readReply(r)
}

func loadCookie(c *cli.Context) ([]byte, error) {
	dir := filepath.Dir(c.GlobalString("socket"))
	return ioutil.ReadFile(filepath.Join(dir, "control_auth_cookie"))
}

func authenticateCommand(c *cli.Context) error {
	lines, code, err := sendLine(c, "PROTOCOLINFO 1")
	if err != nil {
		return err
	}
	if code != 250 {
		return fmt.Errorf("unexpected response %d", code)
	}
	color.Green("authenticated")
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func getinfoCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("getinfo requires at least one key")
	}
	lines, code, err := sendLine(c, "GETINFO "+strings.Join([]string(c.Args()), " "))
	if err != nil {
		return err
	}
	if code != 250 {
		color.Red("error %d", code)
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func setconfCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("setconf requires at least one key=value")
	}
	lines, code, err := sendLine(c, "SETCONF "+strings.Join([]string(c.Args()), " "))
	if err != nil {
		return err
	}
	if code != 250 {
		color.Red("error %d", code)
		for _, l := range lines {
			fmt.Println(l)
		}
		return fmt.Errorf("SETCONF failed")
	}
	color.Green("OK")
	return nil
}

func signalCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("signal requires exactly one signal name")
	}
	_, code, err := sendLine(c, "SIGNAL "+c.Args().First())
	if err != nil {
		return err
	}
	if code != 250 {
		return fmt.Errorf("SIGNAL failed with %d", code)
	}
	color.Green("OK")
	return nil
}

func watchCommand(c *cli.Context) error {
	conn, r, err := dial(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	cookie, cookieErr := loadCookie(c)
	authLine := "AUTHENTICATE"
	if c.GlobalString("password") != "" {
		authLine = `AUTHENTICATE "` + c.GlobalString("password") + `"`
	} else if cookieErr == nil {
		authLine = "AUTHENTICATE " + hex.EncodeToString(cookie)
	}
	if _, err := conn.Write([]byte(authLine + "\r\n")); err != nil {
		return err
	}
	if _, _, err := readReply(r); err != nil {
		return err
	}

	events := "CIRC STREAM ORCONN BW NOTICE WARN ERR NEWDESC ADDRMAP DESCCHANGED STATUS_GENERAL STATUS_CLIENT STATUS_SERVER GUARD STREAM_BW"
	if _, err := conn.Write([]byte("SETEVENTS " + events + "\r\n")); err != nil {
		return err
	}
	if _, _, err := readReply(r); err != nil {
		return err
	}

	color.Cyan("watching events, ctrl-c to stop")
	for {
		lines, _, err := readReply(r)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Println(l)
		}
	}
}

func cookieCommand(c *cli.Context) error {
	path := filepath.Join(filepath.Dir(c.GlobalString("socket")), "control_auth_cookie")
	if err := clipboard.WriteAll(path); err != nil {
		fmt.Println(path)
		return nil
	}
	color.Green("copied %s to clipboard", path)
	return nil
}

func monitorCommand(c *cli.Context) error {
	lines, code, err := sendLine(c, "GETINFO net/listeners/control")
	if err != nil {
		return err
	}
	if code != 250 || len(lines) == 0 {
		return fmt.Errorf("node did not report a status page")
	}
	url := "http://" + strings.TrimPrefix(lines[0], "net/listeners/control=")
	return browser.OpenURL(url)
}
