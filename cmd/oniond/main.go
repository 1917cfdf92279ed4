// Command oniond runs the node's controller interface: a local,
// authenticated command-and-event channel over a UNIX socket (or, on
// Windows, a named pipe).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/op/go-logging"

	"github.com/oniond/oniond/control"
	"github.com/oniond/oniond/internal/accounting"
	"github.com/oniond/oniond/internal/addrmap"
	"github.com/oniond/oniond/internal/authcookie"
	"github.com/oniond/oniond/internal/circuitmgr"
	"github.com/oniond/oniond/internal/configstore"
	"github.com/oniond/oniond/internal/eventsink"
	"github.com/oniond/oniond/internal/geoip"
	"github.com/oniond/oniond/internal/guards"
	"github.com/oniond/oniond/internal/lifecycle"
	"github.com/oniond/oniond/internal/logsetup"
	"github.com/oniond/oniond/internal/routerstore"
	"github.com/oniond/oniond/internal/streammgr"
	"github.com/oniond/oniond/internal/version"
)

func useSyslog() bool {
	env := os.Getenv("ONIOND_LOG_SYSLOG")
	if env != "" {
		return env == "true"
	}
	return true
}

func dataDir() string {
	if d := os.Getenv("ONIOND_DATA_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oniond"
	}
	return filepath.Join(home, ".oniond")
}

func main() {
	log, leveled, forwarder := logsetup.Setup("oniond", logging.INFO, useSyslog())

	defer func() {
		if x := recover(); x != nil {
			log.Error(fmt.Sprintf("run time panic: %v", x))
			log.Error(string(debug.Stack()))
			panic(x)
		}
	}()

	dir := dataDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Fatal(err)
	}

	cookie, err := authcookie.EnsureCookie(filepath.Join(dir, "control_auth_cookie"), false)
	if err != nil {
		log.Fatal(err)
	}

	cfg := configstore.New(filepath.Join(dir, "config.json"), defaultOptions())
	if err := cfg.Load(); err != nil {
		log.Error("loading configuration: ", err)
	}

	routers, err := routerstore.New(4096)
	if err != nil {
		log.Fatal(err)
	}

	sink := eventsink.New()
	if arn := os.Getenv("ONIOND_SNS_TOPIC_ARN"); arn != "" {
		if err := sink.Configure(os.Getenv("ONIOND_SNS_REGION"), arn); err != nil {
			log.Error("configuring SNS event relay: ", err)
		}
	}

	node := &control.Node{
		Auth: &control.AuthConfig{
			CookieEnabled: true,
			CookieValue:   cookie,
		},
		Config:     cfg,
		Circuits:   circuitmgr.New(),
		Streams:    streammgr.New(),
		Routers:    routers,
		AddrMap:    addrmap.New(4096),
		Accounting: accounting.New(0, 24*time.Hour),
		Guards:     guards.New(),
		GeoIP:      geoip.New(),
		Version:    version.Current,
	}
	node.Log = logsetup.NewRangeSetter(leveled)

	server := control.NewServer(node, log)

	node.Signals = lifecycle.New(
		func() { log.Notice("shutdown requested via SIGNAL"); os.Exit(0) },
		func() { log.Notice("reload requested via SIGNAL") },
		func() { log.Notice("dump requested via SIGNAL") },
	)
	node.DNS = lifecycle.NewResolver(func(name, result string, reverse bool, errMsg string) {
		if errMsg != "" {
			server.EmitAddressMapped(name, "", "NEVER", errMsg)
			return
		}
		server.EmitAddressMapped(name, result, "NEVER", "")
	})

	forwarder.SetHandler(func(level logging.Level, message string, isBug bool) {
		server.HandleLog(level, "oniond", message, isBug)
		if isBug || level <= logging.ERROR {
			if err := sink.RelayBug("LOG", map[string]string{"message": message}); err != nil {
				log.Debug("eventsink relay failed: ", err)
			}
		}
	})

	listener, err := listen(dir)
	if err != nil {
		log.Fatal(err)
	}
	defer listener.Close()

	lifecycle.NotifyOSSignals(func(sig os.Signal) {
		log.Notice("stopping with signal ", sig)
		authcookie.Remove(filepath.Join(dir, "control_auth_cookie"))
		os.Exit(0)
	})

	log.Notice("oniond control port listening on ", listener.Addr().String())
	if err := server.Serve(listener); err != nil {
		log.Error("control server returned: ", err)
	}
}

func defaultOptions() []configstore.Option {
	return []configstore.Option{
		{Canonical: "Fingerprint", Mutable: false},
		{Canonical: "Address", Mutable: true},
		{Canonical: "Nickname", Mutable: true},
		{Canonical: "ExitPolicy", Mutable: true},
		{Canonical: "ORPort", Mutable: false},
		{Canonical: "ControlPort", Mutable: false},
	}
}
